package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"openlearner_backend/internal/model"
	"openlearner_backend/internal/util"
)

// MemoryStore 进程内存储，重启后数据丢失，用于本地演示和测试
type MemoryStore struct {
	mu   sync.RWMutex
	opts options

	users     map[string]*model.User
	courses   map[string]*model.Course
	chapters  map[string][]model.Chapter
	levels    map[string][]model.Level
	progress  map[string]*model.ProgressRecord
	studies   []model.StudyRecord
	materials map[string]model.CourseMaterial
	contents  map[string]model.LevelContentCache
	answers   []model.UserAnswer
	feedback  []model.UserFeedback
}

func NewMemoryStore(opts ...Option) *MemoryStore {
	return &MemoryStore{
		opts:      buildOptions(opts),
		users:     make(map[string]*model.User),
		courses:   make(map[string]*model.Course),
		chapters:  make(map[string][]model.Chapter),
		levels:    make(map[string][]model.Level),
		progress:  make(map[string]*model.ProgressRecord),
		materials: make(map[string]model.CourseMaterial),
		contents:  make(map[string]model.LevelContentCache),
	}
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// 调用方需持有写锁
func (s *MemoryStore) userLocked(userID string) *model.User {
	u, ok := s.users[userID]
	if !ok {
		now := s.opts.now()
		u = model.NewUser(userID)
		u.CreatedAt = now
		u.UpdatedAt = now
		s.users[userID] = u
	}
	return u
}

func copyUser(u *model.User) *model.User {
	c := *u
	if u.LastStudyDate != nil {
		d := *u.LastStudyDate
		c.LastStudyDate = &d
	}
	return &c
}

func (s *MemoryStore) GetOrCreateUser(ctx context.Context, userID string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyUser(s.userLocked(userID)), nil
}

func (s *MemoryStore) AddXP(ctx context.Context, userID string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.userLocked(userID)
	u.TotalXP += delta
	u.UpdatedAt = s.opts.now()
	return nil
}

func (s *MemoryStore) SaveCourse(ctx context.Context, course *model.Course, chapters []model.Chapter, levels []model.Level) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := *course
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.opts.now()
		course.CreatedAt = c.CreatedAt
	}
	s.courses[c.ID] = &c

	chs := make([]model.Chapter, len(chapters))
	for i, ch := range chapters {
		ch.LevelIDs = nil
		chs[i] = ch
	}
	s.chapters[c.ID] = chs

	lvs := make([]model.Level, len(levels))
	for i, lv := range levels {
		lv.Steps = model.CloneSteps(lv.Steps)
		if lv.CreatedAt.IsZero() {
			lv.CreatedAt = c.CreatedAt
		}
		lvs[i] = lv
	}
	s.levels[c.ID] = lvs
	return nil
}

func (s *MemoryStore) GetCourseWithDetails(ctx context.Context, courseID, userID string) (*model.CourseDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.courses[courseID]
	if !ok {
		return nil, util.ErrCourseNotFound
	}

	chapters := append([]model.Chapter(nil), s.chapters[courseID]...)
	sort.Slice(chapters, func(i, j int) bool {
		if chapters[i].Order != chapters[j].Order {
			return chapters[i].Order < chapters[j].Order
		}
		return chapters[i].ID < chapters[j].ID
	})

	levels := make([]model.Level, len(s.levels[courseID]))
	for i, lv := range s.levels[courseID] {
		lv.Steps = model.CloneSteps(lv.Steps)
		levels[i] = lv
	}
	// 与 gorm 查询保持一致: order 相同按 id 排序
	sort.Slice(levels, func(i, j int) bool {
		if levels[i].Order != levels[j].Order {
			return levels[i].Order < levels[j].Order
		}
		return levels[i].ID < levels[j].ID
	})

	return model.AssembleDetail(*c, chapters, levels, s.completedLocked(userID, courseID)), nil
}

func (s *MemoryStore) ListCourses(ctx context.Context) ([]model.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Course, 0, len(s.courses))
	for _, c := range s.courses {
		out = append(out, *c)
	}
	sortCourses(out)
	return out, nil
}

// sortCourses 最近访问的在前，从未访问的排在后面并按创建时间倒序
func sortCourses(courses []model.Course) {
	sort.SliceStable(courses, func(i, j int) bool {
		a, b := courses[i].LastAccessedAt, courses[j].LastAccessedAt
		switch {
		case a != nil && b != nil && !a.Equal(*b):
			return a.After(*b)
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		}
		return courses[i].CreatedAt.After(courses[j].CreatedAt)
	})
}

func (s *MemoryStore) TouchCourse(ctx context.Context, courseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.courses[courseID]; ok {
		now := s.opts.now()
		c.LastAccessedAt = &now
	}
	return nil
}

func (s *MemoryStore) CountCourses(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.courses)), nil
}

func (s *MemoryStore) UpsertProgress(ctx context.Context, userID, courseID, levelID string, status model.LevelStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.opts.now()
	rec := &model.ProgressRecord{
		ID:        model.ProgressID(userID, levelID),
		UserID:    userID,
		CourseID:  courseID,
		LevelID:   levelID,
		Status:    status,
		UpdatedAt: now,
	}
	if status == model.LevelCompleted {
		rec.CompletedAt = &now
	}
	s.progress[rec.ID] = rec
	return nil
}

func (s *MemoryStore) ListCompletedLevelIDs(ctx context.Context, userID, courseID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.completedLocked(userID, courseID), nil
}

func (s *MemoryStore) completedLocked(userID, courseID string) []string {
	ids := []string{}
	for _, p := range s.progress {
		if p.UserID == userID && p.CourseID == courseID && p.Status == model.LevelCompleted {
			ids = append(ids, p.LevelID)
		}
	}
	sort.Strings(ids)
	return ids
}

func (s *MemoryStore) RecordStudySession(ctx context.Context, session model.StudySession) (*model.StudyResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.opts.now()
	today := model.StudyDay(now)
	s.studies = append(s.studies, model.StudyRecord{
		ID:        model.NewID("study"),
		UserID:    session.UserID,
		CourseID:  session.CourseID,
		LevelID:   session.LevelID,
		StudyDate: today,
		Duration:  session.Duration,
		XPEarned:  session.XPEarned,
		CreatedAt: now,
	})

	u := s.userLocked(session.UserID)
	streak := model.NextStreak(u.LastStudyDate, u.CurrentStreak, now)
	u.CurrentStreak = streak
	u.TotalXP += session.XPEarned
	u.LastStudyDate = &today
	u.UpdatedAt = now

	return &model.StudyResult{Streak: streak, XPEarned: session.XPEarned}, nil
}

func (s *MemoryStore) HasStudiedToday(ctx context.Context, userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	today := model.StudyDay(s.opts.now())
	for _, r := range s.studies {
		if r.UserID == userID && r.StudyDate == today {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) GetStudyStats(ctx context.Context, userID string) (*model.StudyStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	today := model.StudyDay(s.opts.now())
	stats := &model.StudyStats{Week: []model.DailyStudy{}}
	var records []model.StudyRecord
	for _, r := range s.studies {
		if r.UserID != userID {
			continue
		}
		if r.StudyDate == today {
			stats.Today.Duration += r.Duration
			stats.Today.XP += r.XPEarned
		}
		records = append(records, r)
	}
	stats.Today.HasStudied = stats.Today.Duration > 0

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].StudyDate != records[j].StudyDate {
			return records[i].StudyDate > records[j].StudyDate
		}
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	for i, r := range records {
		if i == weekRecordLimit {
			break
		}
		stats.Week = append(stats.Week, model.DailyStudy{StudyDate: r.StudyDate, Duration: r.Duration})
	}
	return stats, nil
}

func (s *MemoryStore) SaveCourseMaterial(ctx context.Context, courseID, material string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.materials[courseID] = model.CourseMaterial{CourseID: courseID, Material: material, UploadedAt: s.opts.now()}
	return nil
}

func (s *MemoryStore) GetCourseMaterial(ctx context.Context, courseID string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.materials[courseID]
	return m.Material, ok, nil
}

func (s *MemoryStore) SaveLevelContent(ctx context.Context, levelID string, steps []model.LessonStep) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contents[levelID] = model.LevelContentCache{
		LevelID:     levelID,
		Steps:       model.CloneSteps(steps),
		GeneratedAt: s.opts.now(),
	}
	return nil
}

func (s *MemoryStore) GetLevelContent(ctx context.Context, levelID string) (*model.LevelContentCache, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.contents[levelID]
	if !ok {
		return nil, false, nil
	}
	c.Steps = model.CloneSteps(c.Steps)
	return &c, true, nil
}

func (s *MemoryStore) PruneLevelContent(ctx context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, c := range s.contents {
		if c.GeneratedAt.Before(before) {
			delete(s.contents, id)
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) SaveUserAnswer(ctx context.Context, answer *model.UserAnswer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if answer.ID == "" {
		answer.ID = model.NewID("answer")
	}
	if answer.CreatedAt.IsZero() {
		answer.CreatedAt = s.opts.now()
	}
	s.answers = append(s.answers, *answer)
	return nil
}

func (s *MemoryStore) ListUserAnswers(ctx context.Context, userID, levelID string) ([]model.UserAnswer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.UserAnswer{}
	for _, a := range s.answers {
		if a.UserID == userID && (levelID == "" || a.LevelID == levelID) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *MemoryStore) SaveUserFeedback(ctx context.Context, feedback *model.UserFeedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if feedback.ID == "" {
		feedback.ID = model.NewID("feedback")
	}
	if feedback.CreatedAt.IsZero() {
		feedback.CreatedAt = s.opts.now()
	}
	s.feedback = append(s.feedback, *feedback)
	return nil
}

func (s *MemoryStore) ListUserFeedback(ctx context.Context, userID, levelID string) ([]model.UserFeedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.UserFeedback{}
	for _, f := range s.feedback {
		if f.UserID == userID && (levelID == "" || f.LevelID == levelID) {
			out = append(out, f)
		}
	}
	return out, nil
}
