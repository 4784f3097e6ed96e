package assignments

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarcSchuh/DKBParsing/internal/model"
	"github.com/MarcSchuh/DKBParsing/internal/storage"
)

type fakeCategories struct {
	names []string
}

func (f *fakeCategories) Exists(name string) bool {
	for _, n := range f.names {
		if n == name {
			return true
		}
	}
	return false
}

func (f *fakeCategories) Names() []string { return f.names }

func newAssignmentStore(t *testing.T, categories ...string) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manual-assignments.json")
	s, err := NewStore(path, &fakeCategories{names: categories}, zerolog.Nop())
	require.NoError(t, err)
	return s, path
}

func decPtr(s string) *decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return &d
}

func TestAdd(t *testing.T) {
	s, path := newAssignmentStore(t, "groceries")

	out, err := s.Add(model.Assignment{Date: "15.01.24", Recipient: "REWE", Purpose: "Einkauf", Category: "groceries"})
	require.NoError(t, err)
	assert.True(t, out.Applied)
	assert.True(t, out.Persisted)

	require.Equal(t, 1, s.Len())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"manual_assignments"`)
	assert.NotContains(t, string(data), `"amount"`, "absent amount is omitted")
}

func TestAdd_UnknownCategory(t *testing.T) {
	s, path := newAssignmentStore(t, "groceries", "rent")

	out, err := s.Add(model.Assignment{Date: "15.01.24", Recipient: "REWE", Purpose: "Einkauf", Category: "missing"})
	require.Error(t, err)
	assert.False(t, out.Applied)

	var unknownErr *UnknownCategoryError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "missing", unknownErr.Category)
	assert.Equal(t, []string{"groceries", "rent"}, unknownErr.Known)
	assert.Contains(t, err.Error(), "missing")
	assert.Contains(t, err.Error(), "groceries")

	assert.Equal(t, 0, s.Len(), "rejected assignment must not be recorded")
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "rejected assignment must not be persisted")
}

func TestRemove_ExactTriple(t *testing.T) {
	s, _ := newAssignmentStore(t, "groceries")
	s.Add(model.Assignment{Date: "15.01.24", Recipient: "REWE", Purpose: "Einkauf", Category: "groceries"})
	s.Add(model.Assignment{Date: "15.01.24", Recipient: "REWE", Purpose: "Einkauf", Category: "groceries"})
	s.Add(model.Assignment{Date: "16.01.24", Recipient: "REWE", Purpose: "Einkauf", Category: "groceries"})

	out := s.Remove("15.01.24", "REWE", "Einkauf")
	assert.True(t, out.Applied)
	require.Equal(t, 1, s.Len(), "both matching records removed")
	assert.Equal(t, "16.01.24", s.All()[0].Date)
}

func TestRemove_NoMatch(t *testing.T) {
	s, _ := newAssignmentStore(t, "groceries")
	s.Add(model.Assignment{Date: "15.01.24", Recipient: "REWE", Purpose: "Einkauf", Category: "groceries"})

	out := s.Remove("15.01.24", "REWE", "anderer Zweck")
	assert.False(t, out.Applied)
	assert.Equal(t, 1, s.Len())
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s, path := newAssignmentStore(t, "groceries", "income")
	s.Add(model.Assignment{Date: "15.01.24", Recipient: "REWE", Purpose: "Einkauf", Category: "groceries", Amount: decPtr("-50.5")})
	s.Add(model.Assignment{Date: "31.01.24", Recipient: "Arbeitgeber", Purpose: "Gehalt Januar", Category: "income"})

	reloaded, err := NewStore(path, &fakeCategories{names: []string{"groceries", "income"}}, zerolog.Nop())
	require.NoError(t, err)

	require.Equal(t, 2, reloaded.Len())
	first := reloaded.All()[0]
	require.NotNil(t, first.Amount)
	assert.True(t, first.Amount.Equal(decimal.RequireFromString("-50.5")))
	assert.Nil(t, reloaded.All()[1].Amount)
}

func TestLoad_FailsFastOnFirstInvalidReference(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manual-assignments.json")
	doc := `{
  "manual_assignments": [
    {"date": "15.01.24", "recipient": "REWE", "purpose": "Einkauf", "category": "groceries"},
    {"date": "16.01.24", "recipient": "X", "purpose": "Y", "category": "ghost"},
    {"date": "17.01.24", "recipient": "Z", "purpose": "W", "category": "also-ghost"}
  ]
}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	_, err := NewStore(path, &fakeCategories{names: []string{"groceries"}}, zerolog.Nop())
	require.Error(t, err)

	var unknownErr *UnknownCategoryError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "ghost", unknownErr.Category, "first invalid reference wins")
}

func TestLoad_LeavesNoPartialState(t *testing.T) {
	s, path := newAssignmentStore(t, "groceries")
	s.Add(model.Assignment{Date: "15.01.24", Recipient: "REWE", Purpose: "Einkauf", Category: "groceries"})

	doc := `{
  "manual_assignments": [
    {"date": "01.02.24", "recipient": "A", "purpose": "B", "category": "groceries"},
    {"date": "02.02.24", "recipient": "C", "purpose": "D", "category": "ghost"}
  ]
}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	err := s.Load()
	require.Error(t, err)

	require.Equal(t, 1, s.Len(), "failed load must not replace contents")
	assert.Equal(t, "15.01.24", s.All()[0].Date)
}

func TestLoad_MissingKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manual-assignments.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))

	s, err := NewStore(path, &fakeCategories{}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestLoad_MissingFile(t *testing.T) {
	s, _ := newAssignmentStore(t)

	err := s.Load()
	require.Error(t, err)

	var loadErr *storage.LoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestUnknownCategoryError_EmptyKnown(t *testing.T) {
	err := &UnknownCategoryError{Category: "ghost"}
	assert.Contains(t, err.Error(), "none")
}

func TestPersistFailure_MutationStands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manual-assignments.json")
	s, err := NewStore(path, &fakeCategories{names: []string{"groceries"}}, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, os.Mkdir(path, 0o755))

	out, err := s.Add(model.Assignment{Date: "15.01.24", Recipient: "REWE", Purpose: "Einkauf", Category: "groceries"})
	require.NoError(t, err)
	assert.True(t, out.Applied)
	assert.False(t, out.Persisted)
	assert.NotEmpty(t, out.Warning)
	assert.Equal(t, 1, s.Len())
}
