// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"encoding/json"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/paperchat/internal/model"
	"github.com/jeranaias/paperchat/internal/persist"
)

func newTestStore(t *testing.T) (*Store, *persist.Memory) {
	t.Helper()
	mem := persist.NewMemory()
	return New(mem), mem
}

// checkInvariants asserts the store invariants: non-empty set, valid active
// pointer, pairwise-distinct IDs.
func checkInvariants(t *testing.T, s *Store) {
	t.Helper()
	require.Greater(t, s.Len(), 0, "store must never be empty")
	require.NotNil(t, s.Active(), "active must reference a member")
	seen := make(map[string]bool)
	for _, conv := range s.Sorted() {
		require.False(t, seen[conv.ID], "duplicate conversation id %s", conv.ID)
		seen[conv.ID] = true
	}
}

// =============================================================================
// INITIALIZATION AND SELF-HEAL
// =============================================================================

func TestNew_FreshStoreSelfHeals(t *testing.T) {
	s, mem := newTestStore(t)

	checkInvariants(t, s)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, model.TitleSentinel, s.Active().Title)
	assert.Equal(t, model.DefaultQuerySettings(), s.Active().Settings)
	// The repaired state is persisted immediately.
	assert.Equal(t, 1, mem.Saves)
}

func TestNew_MalformedStateStartsFresh(t *testing.T) {
	mem := persist.NewMemory()
	mem.Seed([]byte(`{"conversations": "not-an-array"}`))

	s := New(mem)

	checkInvariants(t, s)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, model.TitleSentinel, s.Active().Title)
}

func TestNew_RepairsDanglingActivePointer(t *testing.T) {
	mem := persist.NewMemory()
	conv := model.NewConversation()
	state := &model.AppState{ActiveID: "no-such-id", Conversations: []*model.Conversation{conv}}
	raw, err := json.Marshal(state)
	require.NoError(t, err)
	mem.Seed(raw)

	s := New(mem)

	checkInvariants(t, s)
	assert.Equal(t, conv.ID, s.ActiveID())
}

func TestNew_DropsDuplicateIDs(t *testing.T) {
	mem := persist.NewMemory()
	conv := model.NewConversation()
	dupe := conv.Clone()
	state := &model.AppState{ActiveID: conv.ID, Conversations: []*model.Conversation{conv, dupe}}
	raw, err := json.Marshal(state)
	require.NoError(t, err)
	mem.Seed(raw)

	s := New(mem)

	checkInvariants(t, s)
	assert.Equal(t, 1, s.Len())
}

// =============================================================================
// CREATE / DELETE SEQUENCES
// =============================================================================

func TestCreate_DoesNotActivate(t *testing.T) {
	s, _ := newTestStore(t)
	before := s.ActiveID()

	created := s.Create()

	assert.NotEqual(t, created.ID, s.ActiveID())
	assert.Equal(t, before, s.ActiveID())
	assert.Equal(t, 2, s.Len())
}

func TestDelete_LastConversationCarriesUISettings(t *testing.T) {
	s, _ := newTestStore(t)
	uiSettings := model.QuerySettings{
		PersistDir:     "./elsewhere",
		CollectionName: "notes",
		K:              9,
		ReturnContext:  false,
	}

	s.Delete(s.ActiveID(), uiSettings)

	checkInvariants(t, s)
	require.Equal(t, 1, s.Len())
	assert.Equal(t, uiSettings, s.Active().Settings)
}

func TestDelete_ActiveActivatesFirstRemaining(t *testing.T) {
	s, _ := newTestStore(t)
	first := s.Active()
	second := s.Create()
	s.SetActive(second.ID)

	s.Delete(second.ID, model.DefaultQuerySettings())

	checkInvariants(t, s)
	assert.Equal(t, first.ID, s.ActiveID())
}

func TestDelete_BackgroundKeepsActive(t *testing.T) {
	s, _ := newTestStore(t)
	active := s.ActiveID()
	other := s.Create()

	s.Delete(other.ID, model.DefaultQuerySettings())

	checkInvariants(t, s)
	assert.Equal(t, active, s.ActiveID())
}

func TestDelete_UnknownIDIsNoOp(t *testing.T) {
	s, _ := newTestStore(t)
	before := s.Len()

	s.Delete("nope", model.DefaultQuerySettings())

	assert.Equal(t, before, s.Len())
	checkInvariants(t, s)
}

func TestInvariants_HoldUnderRandomCreateDelete(t *testing.T) {
	s, _ := newTestStore(t)
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 500; i++ {
		switch rng.Intn(3) {
		case 0:
			s.Create()
		case 1:
			convs := s.Sorted()
			s.Delete(convs[rng.Intn(len(convs))].ID, model.DefaultQuerySettings())
		case 2:
			convs := s.Sorted()
			s.SetActive(convs[rng.Intn(len(convs))].ID)
		}
		checkInvariants(t, s)
	}
}

// =============================================================================
// ACTIVATION / RENAME / CLEAR
// =============================================================================

func TestSetActive_UnknownIDIsNoOp(t *testing.T) {
	s, mem := newTestStore(t)
	before := s.ActiveID()
	saves := mem.Saves

	assert.False(t, s.SetActive("missing"))
	assert.Equal(t, before, s.ActiveID())
	assert.Equal(t, saves, mem.Saves, "no-op must not persist")
}

func TestRename(t *testing.T) {
	s, _ := newTestStore(t)
	id := s.ActiveID()

	assert.True(t, s.Rename(id, "  Reading list  "))
	assert.Equal(t, "Reading list", s.Active().Title)

	assert.False(t, s.Rename(id, "   "))
	assert.Equal(t, "Reading list", s.Active().Title, "blank rename keeps previous title")

	assert.False(t, s.Rename("missing", "x"))
}

func TestClearHistory(t *testing.T) {
	s, _ := newTestStore(t)
	id := s.ActiveID()
	s.ReplaceHistory(id, []model.Message{
		model.NewUserMessage("q"),
		model.NewAssistantMessage("a", nil),
	})
	title := s.Active().Title
	settings := s.Active().Settings

	s.ClearHistory(id)

	assert.True(t, s.Active().IsEmpty())
	assert.Equal(t, title, s.Active().Title)
	assert.Equal(t, settings, s.Active().Settings)
}

// =============================================================================
// RECONCILIATION
// =============================================================================

func TestReplaceHistory_WholesaleReplacement(t *testing.T) {
	s, _ := newTestStore(t)
	id := s.ActiveID()
	s.ReplaceHistory(id, []model.Message{model.NewUserMessage("old")})

	canonical := []model.Message{
		model.NewUserMessage("What is the capital of France?"),
		model.NewAssistantMessage("Paris.", nil),
	}
	require.True(t, s.ReplaceHistory(id, canonical))

	assert.Equal(t, canonical, s.Active().History)
	assert.Equal(t, "What is the capital of france", s.Active().Title)
}

func TestReplaceHistory_DeletedConversationDropsResponse(t *testing.T) {
	s, _ := newTestStore(t)
	doomed := s.Create()
	s.Delete(doomed.ID, model.DefaultQuerySettings())

	assert.False(t, s.ReplaceHistory(doomed.ID, []model.Message{model.NewUserMessage("late")}))
	checkInvariants(t, s)
}

// =============================================================================
// ORDERING
// =============================================================================

func TestSorted_MostRecentlyActiveFirst(t *testing.T) {
	s, _ := newTestStore(t)
	c1 := s.Active()
	c2 := s.Create()
	c3 := s.Create()

	base := time.Now()
	c1.UpdatedAt = base.Add(1 * time.Hour)
	c2.UpdatedAt = base.Add(2 * time.Hour)
	c3.UpdatedAt = base.Add(3 * time.Hour)

	got := s.Sorted()
	require.Len(t, got, 3)
	assert.Equal(t, []string{c3.ID, c2.ID, c1.ID}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestSorted_TiesAreStable(t *testing.T) {
	s, _ := newTestStore(t)
	c1 := s.Active()
	c2 := s.Create()

	when := time.Now().Add(time.Hour)
	c1.UpdatedAt = when
	c2.UpdatedAt = when

	// Store order breaks the tie, every time.
	for i := 0; i < 5; i++ {
		got := s.Sorted()
		assert.Equal(t, c1.ID, got[0].ID)
		assert.Equal(t, c2.ID, got[1].ID)
	}
}

func TestApplySettings_BumpsRanking(t *testing.T) {
	s, _ := newTestStore(t)
	c1 := s.Active()
	c2 := s.Create()
	c1.UpdatedAt = time.Now()
	c2.UpdatedAt = time.Now().Add(-time.Hour)

	require.Equal(t, c1.ID, s.Sorted()[0].ID)

	// Any settings edit counts as activity and may re-rank the sidebar.
	time.Sleep(time.Millisecond)
	settings := c2.Settings
	settings.K = 7
	s.ApplySettings(c2.ID, settings)

	assert.Equal(t, c2.ID, s.Sorted()[0].ID)
	assert.Equal(t, 7, s.Get(c2.ID).Settings.K)
}

// =============================================================================
// PERSISTENCE BEHAVIOR
// =============================================================================

func TestMutations_PersistSynchronously(t *testing.T) {
	s, mem := newTestStore(t)
	start := mem.Saves

	s.Create()
	s.Rename(s.ActiveID(), "renamed")
	s.ClearHistory(s.ActiveID())
	s.ApplySettings(s.ActiveID(), model.DefaultQuerySettings())

	assert.Equal(t, start+4, mem.Saves)
}

func TestPersistFailure_IsSwallowed(t *testing.T) {
	s, mem := newTestStore(t)
	mem.SaveErr = errors.New("quota exceeded")

	// Mutations still apply in memory; the failure is logged, not surfaced.
	created := s.Create()
	assert.NotNil(t, s.Get(created.ID))
	checkInvariants(t, s)
}

func TestRoundTrip_StateSurvivesReload(t *testing.T) {
	mem := persist.NewMemory()
	s1 := New(mem)
	s1.Rename(s1.ActiveID(), "kept title")
	s1.ReplaceHistory(s1.ActiveID(), []model.Message{
		model.NewUserMessage("q"),
		model.NewAssistantMessage("a", nil),
	})
	extra := s1.Create()

	s2 := New(mem)

	checkInvariants(t, s2)
	require.Equal(t, s1.Len(), s2.Len())
	assert.Equal(t, s1.ActiveID(), s2.ActiveID())
	assert.Equal(t, "kept title", s2.Active().Title)
	assert.NotNil(t, s2.Get(extra.ID))
	assert.Len(t, s2.Active().History, 2)
}

// =============================================================================
// SEARCH
// =============================================================================

func TestSearch(t *testing.T) {
	s, _ := newTestStore(t)
	s.Rename(s.ActiveID(), "Attention papers")
	other := s.Create()
	s.Rename(other.ID, "Grocery list")

	got := s.Search("attention")
	require.Len(t, got, 1)
	assert.Equal(t, "Attention papers", got[0].Title)

	assert.Len(t, s.Search(""), 2)
	assert.Empty(t, s.Search("zebra"))
}
