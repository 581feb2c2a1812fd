package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Reading describes one gradable exercise in the course catalog.
type Reading struct {
	ID    int    `yaml:"id"`
	Title string `yaml:"title"`
}

// CatalogCategory groups readings inside a lesson.
type CatalogCategory struct {
	Name     string    `yaml:"name"`
	Readings []Reading `yaml:"readings"`
}

// Lesson is one unit of coursework.
type Lesson struct {
	Number     int               `yaml:"number"`
	Title      string            `yaml:"title"`
	Categories []CatalogCategory `yaml:"categories"`
}

// Catalog holds the fixed course structure. It supplies the denormalized
// labels attached to completions at creation time; it is not the source of
// grading rules (the grading registry is).
type Catalog struct {
	Lessons []Lesson `yaml:"lessons"`
}

// ReadingLabels are the denormalized labels for one exercise.
type ReadingLabels struct {
	LessonNumber  int
	LessonTitle   string
	Category      string
	ExerciseTitle string
}

// LoadCatalog reads and parses the readings catalog YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog YAML: %w", err)
	}

	return &catalog, nil
}

// Labels returns the labels for the given exercise id.
func (c *Catalog) Labels(exerciseID int) (ReadingLabels, bool) {
	for _, lesson := range c.Lessons {
		for _, category := range lesson.Categories {
			for _, reading := range category.Readings {
				if reading.ID == exerciseID {
					return ReadingLabels{
						LessonNumber:  lesson.Number,
						LessonTitle:   lesson.Title,
						Category:      category.Name,
						ExerciseTitle: reading.Title,
					}, true
				}
			}
		}
	}
	return ReadingLabels{}, false
}

// FirstLesson returns the lowest lesson number in the catalog, or 0 if the
// catalog is empty.
func (c *Catalog) FirstLesson() int {
	first := 0
	for _, lesson := range c.Lessons {
		if first == 0 || lesson.Number < first {
			first = lesson.Number
		}
	}
	return first
}
