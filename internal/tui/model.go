// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cameronsaddress/SnapChef-sub018/internal/service"
	"github.com/cameronsaddress/SnapChef-sub018/models"
)

type screen int

const (
	screenList screen = iota
	screenDetail
	screenForm
	screenConflict
	screenStatus
	screenSignIn
	screenBuildInfo
)

const listHotKeys = "n: новый │ enter: открыть │ e: изм. │ d: уд. │ c: конфликт │ s: синхр. │ r: повтор │ i: статус │ q: выход"

type mainModel struct {
	ctx     context.Context
	t       *TUI
	updates <-chan models.SyncStatus

	screen screen

	items    []models.Record
	idx      int
	loading  bool
	recordID string

	form    recipeForm
	signIn  signInModel
	confirm *confirmModel
	overlay *errorOverlayModel

	status  models.SyncStatus
	entries []models.SyncError
	spinner spinner.Model
	syncing bool
	info    string

	quitting bool
}

func newMainModel(ctx context.Context, t *TUI, updates <-chan models.SyncStatus) mainModel {
	return mainModel{
		ctx:     ctx,
		t:       t,
		updates: updates,
		loading: true,
		spinner: newSyncSpinner(),
	}
}

func (m mainModel) Init() tea.Cmd {
	return tea.Batch(m.cmdLoadItems(), m.cmdSnapshot(), m.waitForStatus())
}

func (m mainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case listLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.info = humanizeError(msg.err)
			return m, nil
		}
		m.items = msg.items
		if m.idx >= len(m.items) {
			m.idx = max(0, len(m.items)-1)
		}
		return m, nil
	case statusMsg:
		m.applyStatus(msg.status)
		return m, nil
	case statusUpdateMsg:
		if msg.closed {
			return m, nil
		}
		m.applyStatus(msg.status)
		return m, tea.Batch(m.cmdLoadItems(), m.waitForStatus())
	case spinner.TickMsg:
		if !m.syncing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case syncDoneMsg:
		m.syncing = false
		if msg.err != nil {
			m.info = humanizeError(msg.err)
		} else {
			m.info = drainSummary(msg.result)
		}
		return m, tea.Batch(m.cmdLoadItems(), m.cmdSnapshot())
	case itemSavedMsg:
		m.form.submitting = false
		if msg.err != nil {
			m.form.err = humanizeError(msg.err)
			return m, nil
		}
		m.screen = screenList
		m.info = msg.status
		return m, m.cmdLoadItems()
	case itemDeletedMsg:
		if msg.err != nil {
			m.overlay = &errorOverlayModel{message: humanizeError(msg.err)}
			return m, nil
		}
		m.screen = screenList
		m.info = "Рецепт удалён"
		return m, m.cmdLoadItems()
	case conflictResolvedMsg:
		m.form.submitting = false
		if msg.err != nil {
			if m.screen == screenForm {
				m.form.err = humanizeError(msg.err)
			} else {
				m.overlay = &errorOverlayModel{message: humanizeError(msg.err)}
			}
			return m, nil
		}
		m.screen = screenList
		m.info = "Конфликт разрешён"
		return m, m.cmdLoadItems()
	case signedInMsg:
		m.signIn.submitting = false
		if msg.err != nil {
			m.signIn.err = humanizeError(msg.err)
			return m, nil
		}
		m.screen = screenList
		m.info = "Вход выполнен: " + msg.owner
		return m, tea.Batch(m.cmdLoadItems(), m.cmdSnapshot())
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		// курсор ввода мигает через обычные сообщения
		var cmd tea.Cmd
		switch m.screen {
		case screenForm:
			m.form, cmd = m.form.updateInput(msg)
		case screenSignIn:
			m.signIn.token, cmd = m.signIn.token.Update(msg)
		}
		return m, cmd
	}

	if key.Matches(keyMsg, keys.forceQuit) {
		m.quitting = true
		return m, tea.Quit
	}

	if m.overlay != nil {
		if key.Matches(keyMsg, keys.enter, keys.esc) {
			m.overlay = nil
		}
		return m, nil
	}
	if m.confirm != nil {
		return m.updateConfirm(keyMsg)
	}

	switch m.screen {
	case screenForm:
		return m.updateForm(keyMsg)
	case screenSignIn:
		return m.updateSignIn(keyMsg)
	case screenDetail:
		return m.updateDetail(keyMsg)
	case screenConflict:
		return m.updateConflict(keyMsg)
	case screenStatus:
		return m.updateStatus(keyMsg)
	case screenBuildInfo:
		if key.Matches(keyMsg, keys.esc, keys.info) {
			m.screen = screenList
		}
		return m, nil
	default:
		return m.updateList(keyMsg)
	}
}

func (m *mainModel) applyStatus(s models.SyncStatus) {
	m.status = s
	if m.t.errors != nil {
		m.entries = m.t.errors.Entries()
	}
}

func (m mainModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, keys.up):
		if m.idx > 0 {
			m.idx--
		}
	case key.Matches(msg, keys.down):
		if m.idx < len(m.items)-1 {
			m.idx++
		}
	case key.Matches(msg, keys.newItem):
		m.form = newRecipeForm(formCreate, "", models.Recipe{})
		m.screen = screenForm
	case key.Matches(msg, keys.enter):
		rec, ok := m.current()
		if !ok {
			m.info = "Нет рецептов"
			return m, nil
		}
		m.recordID = rec.ID
		m.screen = screenDetail
	case key.Matches(msg, keys.edit):
		rec, ok := m.current()
		if !ok {
			m.info = "Нет рецептов"
			return m, nil
		}
		m.startEdit(rec)
	case key.Matches(msg, keys.delete):
		rec, ok := m.current()
		if !ok {
			m.info = "Нет рецептов"
			return m, nil
		}
		m.askDelete(rec)
	case key.Matches(msg, keys.resolve):
		return m.openConflict()
	case key.Matches(msg, keys.sync):
		return m.startSync(false)
	case key.Matches(msg, keys.retry):
		return m.startSync(true)
	case key.Matches(msg, keys.cancelSync):
		m.cancelSync()
	case key.Matches(msg, keys.status):
		m.screen = screenStatus
		return m, m.cmdSnapshot()
	case key.Matches(msg, keys.signIn):
		if m.t.identity.IsAuthenticated() {
			m.info = "Вход уже выполнен: " + m.t.identity.Owner()
			return m, nil
		}
		m.signIn = newSignInModel()
		m.screen = screenSignIn
	case key.Matches(msg, keys.signOut):
		if !m.t.identity.IsAuthenticated() {
			return m, nil
		}
		m.t.identity.SignOut()
		m.info = "Вы вышли. Новые рецепты сохраняются только на устройстве"
		return m, m.cmdSnapshot()
	case key.Matches(msg, keys.info):
		m.screen = screenBuildInfo
	}

	return m, nil
}

func (m mainModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rec, ok := m.recordByID(m.recordID)
	if !ok {
		m.screen = screenList
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.esc):
		m.screen = screenList
	case key.Matches(msg, keys.edit):
		m.startEdit(rec)
	case key.Matches(msg, keys.delete):
		m.askDelete(rec)
	case key.Matches(msg, keys.resolve):
		if rec.SyncState == models.SyncStateConflicted {
			m.screen = screenConflict
		}
	}
	return m, nil
}

func (m mainModel) updateConflict(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rec, ok := m.recordByID(m.recordID)
	if !ok || rec.SyncState != models.SyncStateConflicted {
		m.screen = screenList
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.esc):
		m.screen = screenList
	case key.Matches(msg, keys.keepLocal):
		return m, m.cmdResolve(rec.ID, models.KeepLocal, nil)
	case key.Matches(msg, keys.keepRemote):
		return m, m.cmdResolve(rec.ID, models.KeepRemote, nil)
	case key.Matches(msg, keys.keepCustom):
		m.form = newRecipeForm(formMerge, rec.ID, mergeBase(rec))
		m.screen = screenForm
	}
	return m, nil
}

func (m mainModel) updateStatus(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc, keys.status):
		m.screen = screenList
	case key.Matches(msg, keys.quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, keys.sync):
		return m.startSync(false)
	case key.Matches(msg, keys.retry):
		return m.startSync(true)
	case key.Matches(msg, keys.cancelSync):
		m.cancelSync()
	}
	return m, nil
}

func (m mainModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		if m.form.mode == formMerge {
			m.screen = screenConflict
		} else {
			m.screen = screenList
		}
		return m, nil
	case key.Matches(msg, keys.tab):
		m.form = m.form.moveFocus(1)
		return m, nil
	case key.Matches(msg, keys.backtab):
		m.form = m.form.moveFocus(-1)
		return m, nil
	case key.Matches(msg, keys.enter):
		if m.form.submitting {
			return m, nil
		}
		payload, err := m.form.payload()
		if err != nil {
			m.form.err = err.Error()
			return m, nil
		}
		m.form.err = ""
		m.form.submitting = true
		return m, m.cmdSubmitForm(m.form.mode, m.form.recordID, payload)
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.updateInput(msg)
	return m, cmd
}

func (m mainModel) updateSignIn(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.screen = screenList
		return m, nil
	case key.Matches(msg, keys.enter):
		if m.signIn.submitting {
			return m, nil
		}
		token := strings.TrimSpace(m.signIn.token.Value())
		if token == "" {
			m.signIn.err = "Введите токен"
			return m, nil
		}
		m.signIn.err = ""
		m.signIn.submitting = true
		return m, m.cmdSignIn(token)
	}

	var cmd tea.Cmd
	m.signIn.token, cmd = m.signIn.token.Update(msg)
	return m, cmd
}

func (m mainModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.yes):
		id := m.confirm.recordID
		m.confirm = nil
		return m, m.cmdDelete(id)
	case key.Matches(msg, keys.no):
		m.confirm = nil
	}
	return m, nil
}

func (m *mainModel) startEdit(rec models.Record) {
	if rec.Deleted {
		m.info = "Рецепт удалён, разрешите конфликт"
		return
	}
	m.form = newRecipeForm(formEdit, rec.ID, decodeRecipe(rec.Payload))
	m.screen = screenForm
}

func (m *mainModel) askDelete(rec models.Record) {
	if rec.Deleted {
		m.info = "Рецепт уже удалён"
		return
	}
	m.confirm = &confirmModel{recordID: rec.ID, name: valueOrDash(decodeRecipe(rec.Payload).Name)}
}

func (m mainModel) openConflict() (tea.Model, tea.Cmd) {
	rec, ok := m.current()
	if !ok || rec.SyncState != models.SyncStateConflicted {
		// ищем первый конфликт, если курсор не на нём
		found := false
		for _, r := range m.items {
			if r.SyncState == models.SyncStateConflicted {
				rec, found = r, true
				break
			}
		}
		if !found {
			m.info = "Конфликтов нет"
			return m, nil
		}
	}
	m.recordID = rec.ID
	m.screen = screenConflict
	return m, nil
}

func (m mainModel) startSync(retry bool) (tea.Model, tea.Cmd) {
	if m.syncing {
		return m, nil
	}
	m.syncing = true
	m.info = "Синхронизация..."
	return m, tea.Batch(m.cmdSync(retry), m.spinner.Tick)
}

func (m *mainModel) cancelSync() {
	if !m.syncing {
		return
	}
	m.t.sync.CancelSync()
	m.info = "Остановка синхронизации..."
}

func (m mainModel) current() (models.Record, bool) {
	if len(m.items) == 0 || m.idx < 0 || m.idx >= len(m.items) {
		return models.Record{}, false
	}
	return m.items[m.idx], true
}

func (m mainModel) recordByID(id string) (models.Record, bool) {
	for _, rec := range m.items {
		if rec.ID == id {
			return rec, true
		}
	}
	return models.Record{}, false
}

func drainSummary(res service.DrainResult) string {
	out := fmt.Sprintf("Отправлено: %d │ получено: %d", res.Pushed, res.Pulled)
	if res.Conflicts > 0 {
		out += fmt.Sprintf(" │ конфликтов: %d", res.Conflicts)
	}
	if res.Failed > 0 || res.Parked > 0 {
		out += fmt.Sprintf(" │ не отправлено: %d", res.Failed+res.Parked)
	}
	if res.Skipped > 0 {
		out += fmt.Sprintf(" │ пропущено: %d", res.Skipped)
	}
	return out
}

func (m mainModel) waitForStatus() tea.Cmd {
	updates := m.updates
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		s, ok := <-updates
		return statusUpdateMsg{status: s, closed: !ok}
	}
}

func (m mainModel) cmdSnapshot() tea.Cmd {
	ctx := m.ctx
	svc := m.t.status

	return func() tea.Msg {
		return statusMsg{status: svc.Snapshot(ctx)}
	}
}

// cmdLoadItems loads live records followed by conflicted tombstones, which
// the live listing hides.
func (m mainModel) cmdLoadItems() tea.Cmd {
	ctx := m.ctx
	svc := m.t.records

	return func() tea.Msg {
		items, err := svc.List(ctx)
		if err != nil {
			return listLoadedMsg{err: err}
		}
		conflicts, err := svc.Conflicts(ctx)
		if err != nil {
			return listLoadedMsg{items: items, err: err}
		}
		for _, rec := range conflicts {
			if rec.Deleted {
				items = append(items, rec)
			}
		}
		return listLoadedMsg{items: items}
	}
}

func (m mainModel) cmdSync(retry bool) tea.Cmd {
	ctx := m.ctx
	svc := m.t.sync

	return func() tea.Msg {
		if retry {
			if err := svc.RetryFailed(ctx); err != nil {
				return syncDoneMsg{err: err}
			}
		}
		res, err := svc.StartSync(ctx).Wait(ctx)
		return syncDoneMsg{result: res, err: err}
	}
}

func (m mainModel) cmdSubmitForm(mode formMode, id string, payload json.RawMessage) tea.Cmd {
	ctx := m.ctx
	records := m.t.records

	switch mode {
	case formMerge:
		return m.cmdResolve(id, models.KeepCustom, payload)
	case formEdit:
		return func() tea.Msg {
			_, err := records.Update(ctx, id, payload)
			return itemSavedMsg{status: "Рецепт обновлён", err: err}
		}
	default:
		return func() tea.Msg {
			_, err := records.Create(ctx, payload)
			return itemSavedMsg{status: "Рецепт добавлен", err: err}
		}
	}
}

func (m mainModel) cmdDelete(id string) tea.Cmd {
	ctx := m.ctx
	svc := m.t.records

	return func() tea.Msg {
		return itemDeletedMsg{err: svc.Delete(ctx, id)}
	}
}

func (m mainModel) cmdResolve(id string, choice models.ConflictChoice, payload json.RawMessage) tea.Cmd {
	ctx := m.ctx
	svc := m.t.sync

	return func() tea.Msg {
		rec, err := svc.ResolveConflict(ctx, id, choice, payload)
		return conflictResolvedMsg{record: rec, err: err}
	}
}

func (m mainModel) cmdSignIn(token string) tea.Cmd {
	ctx := m.ctx
	identity := m.t.identity

	return func() tea.Msg {
		if err := identity.SignIn(ctx, token); err != nil {
			return signedInMsg{err: err}
		}
		return signedInMsg{owner: identity.Owner()}
	}
}

func (m mainModel) View() string {
	if m.quitting {
		return ""
	}

	var page string
	switch m.screen {
	case screenForm:
		page = m.form.View()
	case screenSignIn:
		page = m.signIn.View()
	case screenDetail:
		page = m.viewDetail()
	case screenConflict:
		page = m.viewConflict()
	case screenStatus:
		page = m.viewStatus()
	case screenBuildInfo:
		page = renderBuildInfoWindow(m.t.buildInfo)
	default:
		page = m.viewList()
	}

	switch {
	case m.overlay != nil:
		return page + "\n\n" + m.overlay.View()
	case m.confirm != nil:
		return page + "\n\n" + m.confirm.View()
	}
	return page
}

func (m mainModel) header() string {
	var b strings.Builder
	if m.t.identity.IsAuthenticated() {
		b.WriteString("Пользователь: " + m.t.identity.Owner())
	} else {
		b.WriteString("Без входа (a: войти)")
	}
	if m.syncing {
		b.WriteString("  " + m.spinner.View() + " синхронизация")
	}
	b.WriteString("\n")
	b.WriteString(statusLine(m.status))
	b.WriteString("\n")
	if m.info != "" {
		b.WriteString("Статус: " + m.info + "\n")
	}
	return b.String()
}

func (m mainModel) viewList() string {
	out := m.header() + "\n"
	if m.loading {
		out += "Загрузка списка..."
	} else {
		out += renderRecordTable(m.items, m.idx)
	}
	return renderPage("РЕЦЕПТЫ", out, listHotKeys)
}

func (m mainModel) viewDetail() string {
	rec, ok := m.recordByID(m.recordID)
	if !ok {
		return renderPage("РЕЦЕПТ", "Рецепт не найден", "esc: назад")
	}
	body, hotKeys := renderDetail(rec)
	return renderPage("РЕЦЕПТ", body, hotKeys)
}

func (m mainModel) viewConflict() string {
	rec, ok := m.recordByID(m.recordID)
	if !ok || rec.SyncState != models.SyncStateConflicted {
		return renderPage("КОНФЛИКТ", "Конфликт не найден", "esc: назад")
	}
	return renderPage("КОНФЛИКТ", renderConflict(rec), "l: оставить своё │ r: взять с сервера │ m: слить вручную │ esc: назад")
}

func (m mainModel) viewStatus() string {
	out := m.header() + "\n" + renderStatus(m.status, m.entries, m.t.sync.QueueLen(), m.t.sync.Parked())
	return renderPage("СТАТУС СИНХРОНИЗАЦИИ", out, "s: синхр. │ r: повтор ошибок │ x: стоп │ esc: назад")
}
