// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cameronsaddress/SnapChef-sub018/models"
)

type formMode int

const (
	formCreate formMode = iota
	formEdit
	// formMerge collects the payload of a custom conflict resolution.
	formMerge
)

const (
	fieldName = iota
	fieldDescription
	fieldServings
	fieldDifficulty
	fieldTotalTime
	fieldTags
)

var formLabels = []string{"Название", "Описание", "Порции", "Сложность", "Время, мин", "Теги"}

// recipeForm edits the scalar fields of a recipe. Fields the form does not
// show (ingredients, instructions, nutrition) are carried over from base.
type recipeForm struct {
	mode     formMode
	recordID string
	base     models.Recipe

	inputs     []textinput.Model
	focus      int
	err        string
	submitting bool
}

func newRecipeForm(mode formMode, recordID string, base models.Recipe) recipeForm {
	placeholders := []string{
		"Название рецепта",
		"Коротко о блюде",
		"2",
		models.DifficultyEasy + " / " + models.DifficultyMedium + " / " + models.DifficultyHard,
		"30",
		"через запятую",
	}
	values := []string{
		base.Name,
		base.Description,
		intOrEmpty(base.Servings),
		base.Difficulty,
		intOrEmpty(base.TotalTime),
		strings.Join(base.Tags, ", "),
	}

	inputs := make([]textinput.Model, len(formLabels))
	for i := range inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.Width = 40
		in.SetValue(values[i])
		inputs[i] = in
	}
	inputs[fieldName].CharLimit = 120
	inputs[fieldName].Focus()

	return recipeForm{mode: mode, recordID: recordID, base: base, inputs: inputs}
}

func intOrEmpty(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}

func parseOptionalInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errNotANumber
	}
	return v, nil
}

func (f recipeForm) title() string {
	switch f.mode {
	case formEdit:
		return "ИЗМЕНЕНИЕ РЕЦЕПТА"
	case formMerge:
		return "РУЧНОЕ СЛИЯНИЕ"
	default:
		return "НОВЫЙ РЕЦЕПТ"
	}
}

// payload builds the recipe document from the inputs. Range checks are left
// to the record validator.
func (f recipeForm) payload() (json.RawMessage, error) {
	r := f.base

	r.Name = strings.TrimSpace(f.inputs[fieldName].Value())
	if r.Name == "" {
		return nil, errRecipeNameRequired
	}
	r.Description = strings.TrimSpace(f.inputs[fieldDescription].Value())
	r.Difficulty = strings.ToLower(strings.TrimSpace(f.inputs[fieldDifficulty].Value()))

	servings, err := parseOptionalInt(f.inputs[fieldServings].Value())
	if err != nil {
		return nil, fmt.Errorf("порции: %w", err)
	}
	r.Servings = servings

	total, err := parseOptionalInt(f.inputs[fieldTotalTime].Value())
	if err != nil {
		return nil, fmt.Errorf("время: %w", err)
	}
	r.TotalTime = total

	r.Tags = nil
	for _, tag := range strings.Split(f.inputs[fieldTags].Value(), ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			r.Tags = append(r.Tags, tag)
		}
	}

	return json.Marshal(r)
}

func (f recipeForm) moveFocus(delta int) recipeForm {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
	return f
}

// updateInput forwards msg to the focused input.
func (f recipeForm) updateInput(msg tea.Msg) (recipeForm, tea.Cmd) {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f recipeForm) View() string {
	var b strings.Builder
	b.WriteString("Поле        │ Значение\n")
	b.WriteString("────────────┼──────────────────────────────────────────\n")
	for i, in := range f.inputs {
		fmt.Fprintf(&b, "%-11s │ [%s]\n", formLabels[i], in.View())
	}
	if f.submitting {
		b.WriteString("Действие    │ [Сохранение...]\n")
	} else {
		b.WriteString("Действие    │ [Сохранить]\n")
	}
	if f.err != "" {
		b.WriteString("Ошибка      │ " + errorStyle.Render(f.err) + "\n")
	}
	return renderPage(f.title(), strings.TrimRight(b.String(), "\n"), "esc: назад │ tab: след. поле │ enter: сохранить")
}
