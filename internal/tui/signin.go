// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
)

type signInModel struct {
	token      textinput.Model
	err        string
	submitting bool
}

func newSignInModel() signInModel {
	in := textinput.New()
	in.Placeholder = "токен доступа"
	in.EchoMode = textinput.EchoPassword
	in.EchoCharacter = '•'
	in.Width = 48
	in.Focus()
	return signInModel{token: in}
}

func (m signInModel) View() string {
	var b strings.Builder
	b.WriteString("Записи, созданные без входа, будут привязаны к аккаунту\n")
	b.WriteString("и отправлены на сервер.\n\n")
	b.WriteString("Токен │ [" + m.token.View() + "]\n")
	if m.submitting {
		b.WriteString("\nВход...")
	}
	if m.err != "" {
		b.WriteString("\n" + errorStyle.Render(m.err))
	}
	return renderPage("ВХОД", b.String(), "esc: назад │ enter: войти")
}
