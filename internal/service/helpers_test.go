package service

import (
	"classroom_portal/internal/model"
	"classroom_portal/internal/repository"
	"classroom_portal/pkg/database"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 每个 :memory: 连接都是独立的数据库
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{now: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

var (
	sectionStart = time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	sectionEnd   = time.Date(2025, 1, 1, 8, 30, 0, 0, time.UTC)
)

// fixture 为课堂 CLS-20250101-ABCD，其中一个测评的第一个小节有一道 5 分选择题
// （正确选项 7，错误选项 9）和一道 4 分文本题。
// 另有一个带自己小节的测评，用于归属不匹配的检查
type fixture struct {
	db         *gorm.DB
	classroom  model.Classroom
	other      model.Classroom
	teacher    model.User
	students   []model.User
	assessment model.Assessment
	section    model.AssessmentSection
	mcq        model.AssessmentQuestion
	text       model.AssessmentQuestion
	second     model.Assessment
	foreignQ   model.AssessmentQuestion
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	f := &fixture{db: db}

	f.teacher = model.User{Name: "Teacher", Email: "teacher@example.com", Role: model.Teacher}
	require.NoError(t, db.Create(&f.teacher).Error)
	for i, email := range []string{"s1@example.com", "s2@example.com", "s3@example.com"} {
		u := model.User{Name: "Student " + string(rune('A'+i)), Email: email, Role: model.Student}
		require.NoError(t, db.Create(&u).Error)
		f.students = append(f.students, u)
	}

	f.classroom = model.Classroom{Code: "CLS-20250101-ABCD", Name: "Physics", TeacherID: &f.teacher.ID}
	require.NoError(t, db.Create(&f.classroom).Error)
	f.other = model.Classroom{Code: "CLS-20250101-FFFF", Name: "Chemistry"}
	require.NoError(t, db.Create(&f.other).Error)
	for _, s := range f.students {
		require.NoError(t, db.Create(&model.Enrollment{ClassroomID: f.classroom.ID, StudentID: s.ID}).Error)
	}

	f.assessment = model.Assessment{
		ClassroomID: f.classroom.ID,
		Title:       "Midterm",
		Type:        "quiz",
		TotalMarks:  9,
		CreatedBy:   f.teacher.ID,
		Sections: []model.AssessmentSection{{
			Title:   "Part A",
			StartAt: sectionStart,
			EndAt:   sectionEnd,
			Questions: []model.AssessmentQuestion{
				{
					QuestionText: "Unit of force?",
					QType:        model.QuestionTypeMCQ,
					Marks:        5,
					Options: []model.AssessmentOption{
						{BaseModel: model.BaseModel{ID: 7}, OptionText: "Newton", IsCorrect: true},
						{BaseModel: model.BaseModel{ID: 9}, OptionText: "Joule"},
					},
				},
				{QuestionText: "Explain inertia.", QType: model.QuestionTypeText, Marks: 4},
			},
		}},
	}
	require.NoError(t, db.Create(&f.assessment).Error)
	f.section = f.assessment.Sections[0]
	f.mcq = f.section.Questions[0]
	f.text = f.section.Questions[1]

	f.second = model.Assessment{
		ClassroomID: f.classroom.ID,
		Title:       "Final",
		CreatedBy:   f.teacher.ID,
		Sections: []model.AssessmentSection{{
			Title:   "Part B",
			StartAt: sectionStart,
			EndAt:   sectionEnd,
			Questions: []model.AssessmentQuestion{{
				QuestionText: "Speed of light?",
				QType:        model.QuestionTypeMCQ,
				Marks:        3,
				Options: []model.AssessmentOption{
					{BaseModel: model.BaseModel{ID: 20}, OptionText: "3e8 m/s", IsCorrect: true},
					{BaseModel: model.BaseModel{ID: 21}, OptionText: "340 m/s"},
				},
			}},
		}},
	}
	require.NoError(t, db.Create(&f.second).Error)
	f.foreignQ = f.second.Sections[0].Questions[0]
	return f
}

func (f *fixture) studentAccess(i int) *Access {
	return &Access{Classroom: &f.classroom, UserID: f.students[i].ID, Role: model.Student}
}

func (f *fixture) teacherAccess() *Access {
	return &Access{Classroom: &f.classroom, UserID: f.teacher.ID, Role: model.Teacher}
}

func (f *fixture) submissionService(now time.Time) *SubmissionService {
	svc := NewSubmissionService(f.db,
		repository.NewSubmissionRepository(f.db),
		repository.NewAssessmentRepository(f.db),
		30*time.Second,
	)
	svc.Now = func() time.Time { return now }
	return svc
}

func (f *fixture) assessmentService(now time.Time) *AssessmentService {
	svc := NewAssessmentService(
		repository.NewAssessmentRepository(f.db),
		repository.NewSubmissionRepository(f.db),
		nil,
		nil,
	)
	svc.Now = func() time.Time { return now }
	return svc
}

func uintPtr(v uint) *uint { return &v }

func strPtr(s string) *string { return &s }

func intPtr(v int) *int { return &v }
