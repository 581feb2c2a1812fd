package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogYAML = `
lessons:
  - number: 1
    title: "Getting Acquainted"
    categories:
      - name: "People and Introductions"
        readings:
          - id: 1
            title: "Meet the Students"
  - number: 6
    title: "Looking Back"
    categories:
      - name: "Course Review"
        readings:
          - id: 15
            title: "The Road Ahead"
`

func writeCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "readings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(catalogYAML), 0644))
	return path
}

func TestLoadCatalog(t *testing.T) {
	catalog, err := LoadCatalog(writeCatalog(t))
	require.NoError(t, err)
	require.Len(t, catalog.Lessons, 2)

	labels, ok := catalog.Labels(15)
	require.True(t, ok)
	assert.Equal(t, 6, labels.LessonNumber)
	assert.Equal(t, "Looking Back", labels.LessonTitle)
	assert.Equal(t, "Course Review", labels.Category)
	assert.Equal(t, "The Road Ahead", labels.ExerciseTitle)

	_, ok = catalog.Labels(99)
	assert.False(t, ok)

	assert.Equal(t, 1, catalog.FirstLesson())
}

func TestLoadCatalogMissingFile(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestFirstLessonEmptyCatalog(t *testing.T) {
	catalog := &Catalog{}
	assert.Equal(t, 0, catalog.FirstLesson())
}
