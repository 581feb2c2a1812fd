package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/AbbosRakhmonov/espreading/internal/models"
	"github.com/AbbosRakhmonov/espreading/internal/utils"
	"gorm.io/gorm"
)

// fakeCompletionStore is an in-memory stand-in for the completion
// repository. Create enforces the (student, exercise) uniqueness invariant
// under a mutex, so concurrent Submit calls race exactly like they do
// against the real unique index.
type fakeCompletionStore struct {
	mu      sync.Mutex
	records map[string]*models.Completion
	nextID  uint

	// createErr, when set, is returned by the next Create call.
	createErr error
	// getMisses makes that many Get calls report NotFound regardless of
	// contents, widening the check-then-create window on demand.
	getMisses int
}

func newFakeCompletionStore() *fakeCompletionStore {
	return &fakeCompletionStore{records: make(map[string]*models.Completion)}
}

func completionKey(studentID uint, exerciseID int) string {
	return fmt.Sprintf("%d/%d", studentID, exerciseID)
}

func (f *fakeCompletionStore) Get(ctx context.Context, studentID uint, exerciseID int) (*models.Completion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getMisses > 0 {
		f.getMisses--
		return nil, &utils.NotFoundError{Resource: "completion"}
	}
	record, ok := f.records[completionKey(studentID, exerciseID)]
	if !ok {
		return nil, &utils.NotFoundError{Resource: "completion"}
	}
	return record, nil
}

func (f *fakeCompletionStore) Create(ctx context.Context, completion *models.Completion) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		err := f.createErr
		f.createErr = nil
		return err
	}
	key := completionKey(completion.StudentID, completion.ExerciseID)
	if _, exists := f.records[key]; exists {
		return gorm.ErrDuplicatedKey
	}
	f.nextID++
	completion.ID = f.nextID
	completion.CreatedAt = time.Now()
	f.records[key] = completion
	return nil
}

// seed inserts a record directly, bypassing Create.
func (f *fakeCompletionStore) seed(completion *models.Completion) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	completion.ID = f.nextID
	if completion.CreatedAt.IsZero() {
		completion.CreatedAt = time.Now()
	}
	f.records[completionKey(completion.StudentID, completion.ExerciseID)] = completion
}

func (f *fakeCompletionStore) CountByStudent(ctx context.Context, studentID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, record := range f.records {
		if record.StudentID == studentID {
			count++
		}
	}
	return count, nil
}

func (f *fakeCompletionStore) MaxFinishedLesson(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	max := 0
	for _, record := range f.records {
		if record.Finished && record.LessonNumber > max {
			max = record.LessonNumber
		}
	}
	return max, nil
}

func (f *fakeCompletionStore) HasFinishedInLesson(ctx context.Context, studentID uint, lesson int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, record := range f.records {
		if record.StudentID == studentID && record.LessonNumber == lesson && record.Finished {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCompletionStore) HasAnyInLesson(ctx context.Context, studentID uint, lesson int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, record := range f.records {
		if record.StudentID == studentID && record.LessonNumber == lesson {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCompletionStore) ListByStudent(ctx context.Context, studentID uint) ([]models.Completion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var completions []models.Completion
	for _, record := range f.records {
		if record.StudentID == studentID {
			completions = append(completions, *record)
		}
	}
	return completions, nil
}

// fakeQuestionnaireStore mirrors the questionnaire repository with the
// (student, type) uniqueness invariant.
type fakeQuestionnaireStore struct {
	mu        sync.Mutex
	records   map[string]*models.QuestionnaireResponse
	nextID    uint
	createErr error
	getMisses int
}

func newFakeQuestionnaireStore() *fakeQuestionnaireStore {
	return &fakeQuestionnaireStore{records: make(map[string]*models.QuestionnaireResponse)}
}

func questionnaireKey(studentID uint, qtype string) string {
	return fmt.Sprintf("%d/%s", studentID, qtype)
}

func (f *fakeQuestionnaireStore) Get(ctx context.Context, studentID uint, qtype string) (*models.QuestionnaireResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getMisses > 0 {
		f.getMisses--
		return nil, &utils.NotFoundError{Resource: "questionnaire response"}
	}
	record, ok := f.records[questionnaireKey(studentID, qtype)]
	if !ok {
		return nil, &utils.NotFoundError{Resource: "questionnaire response"}
	}
	return record, nil
}

func (f *fakeQuestionnaireStore) Create(ctx context.Context, response *models.QuestionnaireResponse) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		err := f.createErr
		f.createErr = nil
		return err
	}
	key := questionnaireKey(response.StudentID, response.Type)
	if _, exists := f.records[key]; exists {
		return gorm.ErrDuplicatedKey
	}
	f.nextID++
	response.ID = f.nextID
	response.CreatedAt = time.Now()
	f.records[key] = response
	return nil
}

func (f *fakeQuestionnaireStore) Delete(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, record := range f.records {
		if record.ID == id {
			delete(f.records, key)
			return nil
		}
	}
	return &utils.NotFoundError{Resource: "questionnaire response"}
}

func (f *fakeQuestionnaireStore) seed(response *models.QuestionnaireResponse) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	response.ID = f.nextID
	if response.CreatedAt.IsZero() {
		response.CreatedAt = time.Now()
	}
	f.records[questionnaireKey(response.StudentID, response.Type)] = response
}

// testCatalog mirrors config/readings.yaml closely enough for service tests:
// six lessons, lesson 6 holding only exercise 15.
func testCatalog() *models.Catalog {
	return &models.Catalog{Lessons: []models.Lesson{
		{Number: 1, Title: "Getting Acquainted", Categories: []models.CatalogCategory{
			{Name: "People and Introductions", Readings: []models.Reading{
				{ID: 1, Title: "Meet the Students"},
				{ID: 2, Title: "A Letter from the Dean"},
			}},
			{Name: "University Life", Readings: []models.Reading{
				{ID: 3, Title: "First Day on Campus"},
			}},
		}},
		{Number: 2, Title: "Campus Life", Categories: []models.CatalogCategory{
			{Name: "Student Services", Readings: []models.Reading{
				{ID: 4, Title: "The Student Union"},
				{ID: 5, Title: "Finding Your Way Around"},
			}},
		}},
		{Number: 6, Title: "Looking Back", Categories: []models.CatalogCategory{
			{Name: "Course Review", Readings: []models.Reading{
				{ID: 15, Title: "The Road Ahead"},
			}},
		}},
	}}
}
