package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"openlearner_backend/internal/generation"
	"openlearner_backend/internal/llm"
	"openlearner_backend/internal/model"
	"openlearner_backend/internal/repository"
	"openlearner_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const outlineJSON = `{"title":"Cells","description":"Biology basics","icon":"🧬",
"chapters":[{"title":"Structure","description":"parts"},{"title":"Energy","description":"atp"},{"title":"Division","description":"mitosis"}],
"levels":[
 {"title":"Membrane","description":"d","order":1,"chapterIndex":0,"xpReward":60},
 {"title":"Nucleus","description":"d","order":2,"chapterIndex":0,"xpReward":60},
 {"title":"Mitochondria","description":"d","order":3,"chapterIndex":1,"xpReward":70},
 {"title":"Stray","description":"d","order":4,"chapterIndex":7,"xpReward":70}
]}`

var material = strings.Repeat("Cells are the basic unit of life. ", 4)

func newCourseService(replies ...llm.MockReply) (*CourseService, *repository.MemoryStore) {
	store := repository.NewMemoryStore()
	mock := llm.NewMockProvider(replies...)
	return NewCourseService(store, generation.NewOutlineGenerator(generation.Static(mock))), store
}

func TestGenerateCourse_PersistsOutlineAndMaterial(t *testing.T) {
	svc, store := newCourseService(llm.MockReply{Text: outlineJSON})
	ctx := context.Background()

	res, err := svc.GenerateCourse(ctx, GenerateCourseRequest{Material: material})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.CourseID, "course-"))

	c := res.Course
	assert.Equal(t, "Cells", c.Title)
	assert.Equal(t, 4, c.Lessons)
	assert.Equal(t, 8, c.Exercises)
	assert.Zero(t, c.Progress)
	assert.Equal(t, generation.Intermediate, c.Difficulty)

	require.Len(t, c.Chapters, 3)
	assert.Equal(t, "chapter-"+res.CourseID+"-0", c.Chapters[0].ID)
	assert.Equal(t, []string{"level-" + res.CourseID + "-0", "level-" + res.CourseID + "-1", "level-" + res.CourseID + "-3"}, c.Chapters[0].LevelIDs)
	assert.Empty(t, c.Chapters[2].LevelIDs)

	require.Len(t, c.Levels, 4)
	for _, lv := range c.Levels {
		assert.Equal(t, model.LevelAvailable, lv.Status)
		assert.Empty(t, lv.Steps)
	}
	assert.Equal(t, c.Chapters[0].ID, c.Levels[3].ChapterID, "out of range chapterIndex falls back to chapter 0")

	stored, found, err := store.GetCourseMaterial(ctx, res.CourseID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, strings.TrimSpace(material), stored)

	detail, err := svc.GetCourse(ctx, res.CourseID, "user-1")
	require.NoError(t, err)
	assert.Len(t, detail.Levels, 4)
}

func TestGenerateCourse_FailureWritesNothing(t *testing.T) {
	svc, store := newCourseService(llm.MockReply{Text: "sorry"})
	ctx := context.Background()

	_, err := svc.GenerateCourse(ctx, GenerateCourseRequest{Material: material})
	var pErr *llm.GenerationParseError
	require.ErrorAs(t, err, &pErr)

	courses, err := store.ListCourses(ctx)
	require.NoError(t, err)
	assert.Empty(t, courses)
}

// failingMaterialStore 资料写入总是失败，模拟对象存储不可用
type failingMaterialStore struct {
	*repository.MemoryStore
}

func (s *failingMaterialStore) SaveCourseMaterial(ctx context.Context, courseID, material string) error {
	return errors.New("object store down")
}

func TestGenerateCourse_MaterialFailureLeavesNoCourse(t *testing.T) {
	store := &failingMaterialStore{MemoryStore: repository.NewMemoryStore()}
	mock := llm.NewMockProvider(llm.MockReply{Text: outlineJSON})
	svc := NewCourseService(store, generation.NewOutlineGenerator(generation.Static(mock)))
	ctx := context.Background()

	_, err := svc.GenerateCourse(ctx, GenerateCourseRequest{Material: material})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "object store down")

	count, err := store.CountCourses(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestGenerateCourse_ShortMaterial(t *testing.T) {
	svc, _ := newCourseService()
	_, err := svc.GenerateCourse(context.Background(), GenerateCourseRequest{Material: strings.Repeat("a", 49)})
	var vErr *util.ValidationError
	assert.ErrorAs(t, err, &vErr)
}
