// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/cameronsaddress/SnapChef-sub018/internal/adapter"
	"github.com/cameronsaddress/SnapChef-sub018/internal/config"
	"github.com/cameronsaddress/SnapChef-sub018/internal/identity"
	"github.com/cameronsaddress/SnapChef-sub018/internal/logger"
	"github.com/cameronsaddress/SnapChef-sub018/internal/mock"
	"github.com/cameronsaddress/SnapChef-sub018/internal/service"
	"github.com/cameronsaddress/SnapChef-sub018/internal/store"
	"github.com/cameronsaddress/SnapChef-sub018/models"
)

const testOwner = "user42"

func testContext() context.Context {
	l := zerolog.Nop()
	return l.WithContext(context.Background())
}

type stubIdentity struct {
	mu    sync.Mutex
	owner string
}

func (s *stubIdentity) Owner() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.owner == "" {
		return models.AnonymousOwner
	}
	return s.owner
}

func (s *stubIdentity) IsAuthenticated() bool {
	return s.Owner() != models.AnonymousOwner
}

func (s *stubIdentity) SignIn(_ context.Context, token string) error {
	if token == "bad" {
		return identity.ErrInvalidToken
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owner = testOwner
	return nil
}

func (s *stubIdentity) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owner = ""
}

type fixture struct {
	ui       *TUI
	records  store.RecordStore
	identity *stubIdentity
	remote   *mock.MockRemoteService
}

func newFixture(t *testing.T, owner string) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	remote := mock.NewMockRemoteService(ctrl)

	storages, err := store.NewClientStorages(testContext(), config.ClientStorage{
		DB: config.ClientDB{DSN: filepath.Join(t.TempDir(), "client.db")},
	}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { storages.Records.Close() })

	id := &stubIdentity{owner: owner}
	cfg := &config.ClientConfig{
		Adapter: config.ClientAdapter{RequestTimeout: time.Second},
		Sync: config.ClientSync{
			MaxRetries:       1,
			BaseBackoff:      time.Millisecond,
			MaxBackoff:       time.Millisecond,
			ErrorLogCapacity: 10,
		},
	}
	services := service.NewClientServices(storages.Records, remote, id, cfg, logger.Nop())

	ui, err := New(services, id, models.NewBuildInfo("1.0.0", "", ""), logger.Nop())
	require.NoError(t, err)

	return &fixture{ui: ui, records: storages.Records, identity: id, remote: remote}
}

func (f *fixture) model() mainModel {
	return newMainModel(testContext(), f.ui, nil)
}

func (f *fixture) seed(t *testing.T, rec models.Record) {
	t.Helper()
	_, err := f.records.Update(testContext(), rec.ID, func(cur *models.Record, _ bool) (store.Mutation, error) {
		*cur = rec
		return store.MutationSave, nil
	})
	require.NoError(t, err)
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func update(t *testing.T, m mainModel, msg tea.Msg) (mainModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(mainModel)
	require.True(t, ok)
	return out, cmd
}

func press(t *testing.T, m mainModel, k string) (mainModel, tea.Cmd) {
	t.Helper()
	return update(t, m, keyMsg(k))
}

// reload runs the list command synchronously.
func reload(t *testing.T, m mainModel) mainModel {
	t.Helper()
	m, _ = update(t, m, m.cmdLoadItems()())
	return m
}

func recipeJSON(t *testing.T, r models.Recipe) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(r)
	require.NoError(t, err)
	return b
}

func versionPtr(v int64) *int64 {
	return &v
}

func TestNew_NoServices(t *testing.T) {
	_, err := New(nil, &stubIdentity{}, models.BuildInfo{}, logger.Nop())
	assert.ErrorIs(t, err, ErrNoServices)
}

func TestMainModel_CreateRecipe(t *testing.T) {
	f := newFixture(t, "")
	m := f.model()

	m, _ = press(t, m, "n")
	require.Equal(t, screenForm, m.screen)
	assert.Equal(t, formCreate, m.form.mode)

	m.form.inputs[fieldName].SetValue("Борщ")
	m.form.inputs[fieldServings].SetValue("4")
	m.form.inputs[fieldDifficulty].SetValue("Medium")
	m.form.inputs[fieldTags].SetValue("суп, , свёкла")

	m, cmd := press(t, m, "enter")
	require.NotNil(t, cmd)
	assert.True(t, m.form.submitting)

	m, _ = update(t, m, cmd())
	assert.Equal(t, screenList, m.screen)
	assert.Equal(t, "Рецепт добавлен", m.info)

	m = reload(t, m)
	require.Len(t, m.items, 1)
	assert.Equal(t, models.SyncStateAnonymous, m.items[0].SyncState)

	r := decodeRecipe(m.items[0].Payload)
	assert.Equal(t, "Борщ", r.Name)
	assert.Equal(t, 4, r.Servings)
	assert.Equal(t, models.DifficultyMedium, r.Difficulty)
	assert.Equal(t, []string{"суп", "свёкла"}, r.Tags)
}

func TestMainModel_FormValidation(t *testing.T) {
	tests := []struct {
		name     string
		fill     func(f *recipeForm)
		wantErr  string
		wantSend bool
	}{
		{
			name:    "empty name",
			fill:    func(f *recipeForm) {},
			wantErr: errRecipeNameRequired.Error(),
		},
		{
			name: "servings not a number",
			fill: func(f *recipeForm) {
				f.inputs[fieldName].SetValue("Плов")
				f.inputs[fieldServings].SetValue("много")
			},
			wantErr: errNotANumber.Error(),
		},
		{
			name: "unknown difficulty is rejected by the store",
			fill: func(f *recipeForm) {
				f.inputs[fieldName].SetValue("Плов")
				f.inputs[fieldDifficulty].SetValue("impossible")
			},
			wantErr:  "Некорректные данные",
			wantSend: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "")
			m := f.model()
			m, _ = press(t, m, "n")
			tt.fill(&m.form)

			m, cmd := press(t, m, "enter")
			if tt.wantSend {
				require.NotNil(t, cmd)
				m, _ = update(t, m, cmd())
			}
			assert.Equal(t, screenForm, m.screen)
			assert.Contains(t, m.form.err, tt.wantErr)
			assert.False(t, m.form.submitting)
		})
	}
}

func TestMainModel_EditKeepsHiddenFields(t *testing.T) {
	f := newFixture(t, "")
	ctx := testContext()

	_, err := f.ui.records.Create(ctx, recipeJSON(t, models.Recipe{
		Name:            "Омлет",
		IngredientsUsed: []models.RecipeIngredient{{Name: "яйца", Amount: "3 шт"}},
		Instructions:    []string{"взбить", "пожарить"},
	}))
	require.NoError(t, err)

	m := reload(t, f.model())
	m, _ = press(t, m, "e")
	require.Equal(t, screenForm, m.screen)
	assert.Equal(t, "Омлет", m.form.inputs[fieldName].Value())

	m.form.inputs[fieldName].SetValue("Омлет с сыром")
	m, cmd := press(t, m, "enter")
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	assert.Equal(t, "Рецепт обновлён", m.info)

	m = reload(t, m)
	require.Len(t, m.items, 1)
	r := decodeRecipe(m.items[0].Payload)
	assert.Equal(t, "Омлет с сыром", r.Name)
	assert.Len(t, r.IngredientsUsed, 1)
	assert.Equal(t, []string{"взбить", "пожарить"}, r.Instructions)
	assert.Equal(t, int64(2), m.items[0].LocalVersion)
}

func TestMainModel_DeleteWithConfirm(t *testing.T) {
	f := newFixture(t, "")
	_, err := f.ui.records.Create(testContext(), recipeJSON(t, models.Recipe{Name: "Тост"}))
	require.NoError(t, err)

	m := reload(t, f.model())

	m, _ = press(t, m, "d")
	require.NotNil(t, m.confirm)
	assert.Contains(t, m.View(), "Тост")

	// Отказ ничего не удаляет
	m, cmd := press(t, m, "n")
	assert.Nil(t, m.confirm)
	assert.Nil(t, cmd)

	m, _ = press(t, m, "d")
	m, cmd = press(t, m, "y")
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	assert.Equal(t, "Рецепт удалён", m.info)

	m = reload(t, m)
	assert.Empty(t, m.items)
}

func TestMainModel_SyncNotAuthenticated(t *testing.T) {
	f := newFixture(t, "")
	m := f.model()

	m, cmd := press(t, m, "s")
	require.NotNil(t, cmd)
	assert.True(t, m.syncing)

	// Повторное нажатие не запускает второй проход
	_, again := press(t, m, "s")
	assert.Nil(t, again)

	m, _ = update(t, m, m.cmdSync(false)())
	assert.False(t, m.syncing)
	assert.Equal(t, humanizeError(service.ErrNotAuthenticated), m.info)
}

func TestMainModel_SyncPushes(t *testing.T) {
	f := newFixture(t, testOwner)
	f.remote.EXPECT().Push(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req models.PushRequest) (models.PushResult, error) {
			return models.PushResult{RecordID: req.RecordID, Version: req.Version, Payload: req.Payload}, nil
		}).AnyTimes()
	f.remote.EXPECT().Pull(gomock.Any(), gomock.Any()).Return(models.PullResponse{ServerTime: time.Now().UTC()}, nil).AnyTimes()

	_, err := f.ui.records.Create(testContext(), recipeJSON(t, models.Recipe{Name: "Паста"}))
	require.NoError(t, err)

	m := f.model()
	m, _ = press(t, m, "r")
	m, _ = update(t, m, m.cmdSync(true)())
	assert.Contains(t, m.info, "Отправлено: 1")

	m = reload(t, m)
	require.Len(t, m.items, 1)
	assert.Equal(t, models.SyncStateSynced, m.items[0].SyncState)
}

func TestMainModel_ResolveConflict(t *testing.T) {
	conflicted := func(id string, deleted bool) models.Record {
		return models.Record{
			ID: id, Owner: testOwner, Payload: json.RawMessage(`{"name":"local"}`),
			LocalVersion: 2, RemoteVersion: versionPtr(1),
			SyncState: models.SyncStateConflicted, Deleted: deleted,
			Conflict: &models.ConflictSide{Version: 2, Payload: json.RawMessage(`{"name":"remote"}`)},
		}
	}

	t.Run("keep remote", func(t *testing.T) {
		f := newFixture(t, testOwner)
		f.seed(t, conflicted("r1", false))

		m := reload(t, f.model())
		m, _ = press(t, m, "c")
		require.Equal(t, screenConflict, m.screen)
		assert.Contains(t, m.View(), "remote")

		m, cmd := press(t, m, "r")
		require.NotNil(t, cmd)
		msg, ok := cmd().(conflictResolvedMsg)
		require.True(t, ok)
		require.NoError(t, msg.err)
		assert.Equal(t, models.SyncStateSynced, msg.record.SyncState)

		m, _ = update(t, m, msg)
		assert.Equal(t, screenList, m.screen)
		assert.Equal(t, "Конфликт разрешён", m.info)
	})

	t.Run("custom merge", func(t *testing.T) {
		f := newFixture(t, testOwner)
		f.seed(t, conflicted("r1", false))

		m := reload(t, f.model())
		m, _ = press(t, m, "c")
		m, _ = press(t, m, "m")
		require.Equal(t, screenForm, m.screen)
		assert.Equal(t, formMerge, m.form.mode)
		assert.Equal(t, "local", m.form.inputs[fieldName].Value())

		// esc возвращает к конфликту, а не к списку
		m, _ = press(t, m, "esc")
		assert.Equal(t, screenConflict, m.screen)

		m, _ = press(t, m, "m")
		m.form.inputs[fieldName].SetValue("merged")
		m, cmd := press(t, m, "enter")
		require.NotNil(t, cmd)
		msg, ok := cmd().(conflictResolvedMsg)
		require.True(t, ok)
		require.NoError(t, msg.err)
		assert.Equal(t, models.SyncStatePending, msg.record.SyncState)
		assert.Equal(t, "merged", decodeRecipe(msg.record.Payload).Name)
	})

	t.Run("tombstone is listed", func(t *testing.T) {
		f := newFixture(t, testOwner)
		f.seed(t, conflicted("gone", true))

		m := reload(t, f.model())
		require.Len(t, m.items, 1)
		assert.True(t, m.items[0].Deleted)

		// Удалённый рецепт нельзя править, только разрешить конфликт
		m, _ = press(t, m, "e")
		assert.Equal(t, screenList, m.screen)

		m, _ = press(t, m, "c")
		assert.Equal(t, screenConflict, m.screen)
		assert.Equal(t, "remote", mergeBase(m.items[0]).Name)
	})

	t.Run("no conflicts", func(t *testing.T) {
		f := newFixture(t, testOwner)
		m, _ := press(t, f.model(), "c")
		assert.Equal(t, screenList, m.screen)
		assert.Equal(t, "Конфликтов нет", m.info)
	})
}

func TestMainModel_SignIn(t *testing.T) {
	f := newFixture(t, "")
	m := f.model()

	m, _ = press(t, m, "a")
	require.Equal(t, screenSignIn, m.screen)

	m, cmd := press(t, m, "enter")
	assert.Nil(t, cmd)
	assert.Equal(t, "Введите токен", m.signIn.err)

	m.signIn.token.SetValue("bad")
	m, cmd = press(t, m, "enter")
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	assert.Equal(t, screenSignIn, m.screen)
	assert.Equal(t, "Неверный токен", m.signIn.err)

	m.signIn.token.SetValue("good")
	m, cmd = press(t, m, "enter")
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	assert.Equal(t, screenList, m.screen)
	assert.Contains(t, m.info, testOwner)
	assert.True(t, f.identity.IsAuthenticated())

	m, _ = press(t, m, "o")
	assert.False(t, f.identity.IsAuthenticated())
}

func TestMainModel_StatusSubscription(t *testing.T) {
	f := newFixture(t, "")
	updates, unsubscribe := f.ui.status.Subscribe()
	defer unsubscribe()

	m := newMainModel(testContext(), f.ui, updates)
	m, _ = update(t, m, m.cmdSnapshot()())
	assert.Equal(t, float64(100), m.status.Coverage)

	msg, ok := m.waitForStatus()().(statusUpdateMsg)
	require.True(t, ok)
	assert.False(t, msg.closed)

	_, cmd := update(t, m, msg)
	assert.NotNil(t, cmd, "the subscription is re-armed")

	unsubscribe()
	msg, ok = m.waitForStatus()().(statusUpdateMsg)
	require.True(t, ok)
	assert.True(t, msg.closed)
}

func TestMainModel_StatusScreen(t *testing.T) {
	f := newFixture(t, "")
	m := f.model()

	m, _ = press(t, m, "i")
	require.Equal(t, screenStatus, m.screen)
	assert.Contains(t, m.View(), "СТАТУС СИНХРОНИЗАЦИИ")

	m, _ = press(t, m, "esc")
	assert.Equal(t, screenList, m.screen)
}

func TestMainModel_StatusScreenListsParked(t *testing.T) {
	f := newFixture(t, testOwner)
	f.remote.EXPECT().Push(gomock.Any(), gomock.Any()).
		Return(models.PushResult{}, fmt.Errorf("%w: 422 unprocessable", adapter.ErrPermanent)).AnyTimes()
	f.remote.EXPECT().Pull(gomock.Any(), gomock.Any()).Return(models.PullResponse{ServerTime: time.Now().UTC()}, nil).AnyTimes()

	rec, err := f.ui.records.Create(testContext(), recipeJSON(t, models.Recipe{Name: "Плов"}))
	require.NoError(t, err)

	m := f.model()
	m, _ = update(t, m, m.cmdSync(false)())
	require.Equal(t, []string{rec.ID}, f.ui.sync.Parked())

	m, _ = press(t, m, "i")
	require.Equal(t, screenStatus, m.screen)
	view := m.View()
	assert.Contains(t, view, "ОТЛОЖЕНО: 1")
	assert.Contains(t, view, rec.ID)
}

func TestRenderStatus_ParkedOverflow(t *testing.T) {
	var parked []string
	for i := range shownParked + 2 {
		parked = append(parked, fmt.Sprintf("rec-%02d", i))
	}

	out := renderStatus(models.SyncStatus{}, nil, 0, parked)
	assert.Contains(t, out, "ОТЛОЖЕНО: 8")
	assert.Contains(t, out, "rec-05")
	assert.NotContains(t, out, "rec-06")
	assert.Contains(t, out, "и ещё 2")

	out = renderStatus(models.SyncStatus{}, nil, 0, nil)
	assert.Contains(t, out, "ОТЛОЖЕНО: 0")
}

func TestMainModel_Quit(t *testing.T) {
	f := newFixture(t, "")

	m, cmd := press(t, f.model(), "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())

	// В форме q печатается, а не закрывает программу
	m, _ = press(t, f.model(), "n")
	m, _ = press(t, m, "q")
	assert.Equal(t, screenForm, m.screen)
	assert.Equal(t, "q", m.form.inputs[fieldName].Value())

	_, cmd = press(t, m, "ctrl+c")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestMainModel_BuildInfo(t *testing.T) {
	f := newFixture(t, "")

	m, _ := press(t, f.model(), "v")
	require.Equal(t, screenBuildInfo, m.screen)
	assert.Contains(t, m.View(), "1.0.0")
	assert.Contains(t, m.View(), "N/A")
}
