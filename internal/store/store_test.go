package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/wexinc/gantt/internal/errors"
	"github.com/wexinc/gantt/internal/project"
)

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func newDoc(titles ...string) *project.Document {
	doc := project.NewDocument()
	doc.Config.Title = "Plan"
	for i, title := range titles {
		doc.Tasks = append(doc.Tasks, project.NewTask(title, title, day(i+1), day(i+3)))
	}
	return doc
}

// tickingClock advances one minute per call so that rows get distinct times.
func tickingClock() func() time.Time {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Minute)
		return now
	}
}

func openStore(t *testing.T, opts Options) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "projects.db"), opts)
	require.NoError(t, err)
	s.SetClock(tickingClock())
	t.Cleanup(func() { s.Close() })
	return s
}

func titles(doc *project.Document) []string {
	var out []string
	for _, task := range doc.Tasks {
		out = append(out, task.Title)
	}
	return out
}

func TestSave_CreateUpdateAndSkip(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, Options{})

	res, err := s.Save(ctx, "roadmap", newDoc("Design"))
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.True(t, res.Changed)
	id := res.Project.ID
	assert.NotEmpty(t, id)

	res, err = s.Save(ctx, "roadmap", newDoc("Design"))
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.False(t, res.Changed)
	assert.Equal(t, id, res.Project.ID)

	res, err = s.Save(ctx, "roadmap", newDoc("Design", "Build"))
	require.NoError(t, err)
	assert.True(t, res.Changed)

	p, err := s.Get(ctx, "roadmap")
	require.NoError(t, err)
	assert.Equal(t, id, p.ID)
	assert.Equal(t, []string{"Design", "Build"}, titles(p.Document))
	assert.True(t, p.UpdatedAt.After(p.CreatedAt))

	versions, err := s.Versions(ctx, id)
	require.NoError(t, err)
	require.Len(t, versions, 2, "unchanged save must not add a version")
	assert.Equal(t, KindAuto, versions[0].Kind)
	assert.Equal(t, []string{"Design", "Build"}, titles(versions[0].Document))
	assert.Equal(t, []string{"Design"}, titles(versions[1].Document))
}

func TestGet_ByIDOrName(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, Options{})

	res, err := s.Save(ctx, "alpha", newDoc("A"))
	require.NoError(t, err)

	byID, err := s.Get(ctx, res.Project.ID)
	require.NoError(t, err)
	assert.Equal(t, "alpha", byID.Name)

	_, err = s.Get(ctx, "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, gerrors.ErrNotFound))
}

func TestList_NewestFirstWithoutDocuments(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, Options{})

	for _, name := range []string{"one", "two", "three"} {
		_, err := s.Save(ctx, name, newDoc(name))
		require.NoError(t, err)
	}
	_, err := s.Save(ctx, "one", newDoc("one", "more"))
	require.NoError(t, err)

	projects, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 3)
	assert.Equal(t, "one", projects[0].Name)
	assert.Equal(t, "three", projects[1].Name)
	assert.Equal(t, "two", projects[2].Name)
	assert.Nil(t, projects[0].Document)
}

func TestVersionCaps_PruneOldest(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, Options{MaxAutoVersions: 2, MaxManualVersions: 1})

	for i := 1; i <= 4; i++ {
		doc := newDoc()
		for j := 0; j < i; j++ {
			doc.Tasks = append(doc.Tasks, project.NewTask("t", "t", day(1), day(1)))
		}
		_, err := s.Save(ctx, "capped", doc)
		require.NoError(t, err)
	}

	_, err := s.Snapshot(ctx, "capped", "first")
	require.NoError(t, err)
	_, err = s.Snapshot(ctx, "capped", "second")
	require.NoError(t, err)

	versions, err := s.Versions(ctx, "capped")
	require.NoError(t, err)

	var auto, manual []*Version
	for _, v := range versions {
		if v.Kind == KindAuto {
			auto = append(auto, v)
		} else {
			manual = append(manual, v)
		}
	}
	require.Len(t, auto, 2)
	assert.Len(t, auto[0].Document.Tasks, 4)
	assert.Len(t, auto[1].Document.Tasks, 3)
	require.Len(t, manual, 1)
	assert.Equal(t, "second", manual[0].Label)
}

func TestSnapshot_DefaultLabel(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, Options{})

	_, err := s.Save(ctx, "p", newDoc("A"))
	require.NoError(t, err)

	v, err := s.Snapshot(ctx, "p", "")
	require.NoError(t, err)
	assert.Equal(t, KindManual, v.Kind)
	assert.Regexp(t, `^Snapshot 2024-03-01 09:\d\d:00$`, v.Label)
}

func TestRestore(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, Options{})

	_, err := s.Save(ctx, "p", newDoc("Old"))
	require.NoError(t, err)
	_, err = s.Save(ctx, "p", newDoc("New"))
	require.NoError(t, err)

	versions, err := s.Versions(ctx, "p")
	require.NoError(t, err)
	require.Len(t, versions, 2)
	oldest := versions[1]

	p, err := s.Restore(ctx, "p", oldest.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Old"}, titles(p.Document))

	stored, err := s.Get(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, []string{"Old"}, titles(stored.Document))

	versions, err = s.Versions(ctx, "p")
	require.NoError(t, err)
	require.Len(t, versions, 3)
	assert.Equal(t, KindManual, versions[0].Kind)
	assert.Equal(t, RestoreLabel, versions[0].Label)
	assert.Equal(t, []string{"New"}, titles(versions[0].Document))

	_, err = s.Restore(ctx, "p", "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, gerrors.ErrNotFound))
}

func TestRestore_ThenSaveSameContentIsSkipped(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, Options{})

	_, err := s.Save(ctx, "p", newDoc("Old"))
	require.NoError(t, err)
	_, err = s.Save(ctx, "p", newDoc("New"))
	require.NoError(t, err)
	versions, err := s.Versions(ctx, "p")
	require.NoError(t, err)

	_, err = s.Restore(ctx, "p", versions[1].ID)
	require.NoError(t, err)

	res, err := s.Save(ctx, "p", newDoc("Old"))
	require.NoError(t, err)
	assert.False(t, res.Changed)
}

func TestDeleteAndRename(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, Options{})

	res, err := s.Save(ctx, "before", newDoc("A"))
	require.NoError(t, err)
	_, err = s.Snapshot(ctx, "before", "keep")
	require.NoError(t, err)

	require.NoError(t, s.Rename(ctx, "before", "after"))
	p, err := s.Get(ctx, "after")
	require.NoError(t, err)
	assert.Equal(t, res.Project.ID, p.ID)

	require.NoError(t, s.Delete(ctx, "after"))
	_, err = s.Get(ctx, res.Project.ID)
	assert.True(t, errors.Is(err, gerrors.ErrNotFound))

	var count int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM versions`).Scan(&count))
	assert.Zero(t, count)

	assert.True(t, errors.Is(s.Delete(ctx, "after"), gerrors.ErrNotFound))
}

func TestDeleteVersion(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, Options{})

	_, err := s.Save(ctx, "p", newDoc("A"))
	require.NoError(t, err)
	v, err := s.Snapshot(ctx, "p", "label")
	require.NoError(t, err)

	require.NoError(t, s.DeleteVersion(ctx, "p", v.ID))
	err = s.DeleteVersion(ctx, "p", v.ID)
	assert.True(t, errors.Is(err, gerrors.ErrNotFound))
}

func TestSave_ConcurrentConnections(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "projects.db")

	stores := make([]*Store, 2)
	for i := range stores {
		s, err := Open(ctx, path, Options{})
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		stores[i] = s
	}

	names := []string{"alpha", "beta"}
	errs := make(chan error, len(stores))
	for i, s := range stores {
		go func() {
			for n := 0; n < 10; n++ {
				if _, err := s.Save(ctx, names[i], newDoc(fmt.Sprintf("Task %d", n))); err != nil {
					errs <- err
					return
				}
			}
			errs <- nil
		}()
	}
	for range stores {
		require.NoError(t, <-errs)
	}

	for _, name := range names {
		versions, err := stores[0].Versions(ctx, name)
		require.NoError(t, err)
		assert.Len(t, versions, 10)
	}
}

func TestOpen_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "projects.db")

	s, err := Open(ctx, path, Options{})
	require.NoError(t, err)
	_, err = s.Save(ctx, "persisted", newDoc("A"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(ctx, path, Options{})
	require.NoError(t, err)
	defer s.Close()

	p, err := s.Get(ctx, "persisted")
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, titles(p.Document))
}
