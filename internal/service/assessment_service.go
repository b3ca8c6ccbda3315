package service

import (
	"classroom_portal/internal/model"
	"classroom_portal/internal/repository"
	"classroom_portal/internal/util"
	"classroom_portal/pkg/logger"
	"classroom_portal/pkg/tracing"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AssessmentService struct {
	Repo           *repository.AssessmentRepository
	SubmissionRepo *repository.SubmissionRepository
	Cache          *repository.AssessmentCache
	Storage        *StorageService
	Now            func() time.Time
}

func NewAssessmentService(repo *repository.AssessmentRepository, submissionRepo *repository.SubmissionRepository,
	cache *repository.AssessmentCache, storage *StorageService) *AssessmentService {
	return &AssessmentService{
		Repo:           repo,
		SubmissionRepo: submissionRepo,
		Cache:          cache,
		Storage:        storage,
		Now:            time.Now,
	}
}

// AssessmentSummary 课堂测评列表中的一行
type AssessmentSummary struct {
	ID         uint      `json:"id"`
	Title      string    `json:"title"`
	Type       string    `json:"type"`
	TotalMarks int       `json:"total_marks"`
	CreatedAt  time.Time `json:"created_at"`
}

// OptionView 不含正确答案标记
type OptionView struct {
	ID         uint   `json:"id"`
	OptionText string `json:"option_text"`
}

type QuestionView struct {
	ID           uint         `json:"id"`
	QuestionText string       `json:"question_text"`
	QType        string       `json:"q_type"`
	Marks        int          `json:"marks"`
	Options      []OptionView `json:"options"`
}

type SectionView struct {
	ID               uint           `json:"id"`
	Title            string         `json:"title"`
	StartAt          time.Time      `json:"start_at"`
	EndAt            time.Time      `json:"end_at"`
	State            SectionState   `json:"state"`
	// 锁定时为距开始的秒数，开放时为距结束的秒数
	RemainingSeconds int64          `json:"remaining_seconds"`
	Questions        []QuestionView `json:"questions"`
}

type ClassroomBrief struct {
	Name string  `json:"name"`
	Logo *string `json:"logo"`
}

// AssessmentView 学生看到的测评
type AssessmentView struct {
	Assessment AssessmentSummary `json:"assessment"`
	Sections   []SectionView     `json:"sections"`
	Classroom  ClassroomBrief    `json:"classroom"`
}

type SectionStatus struct {
	SectionID        uint         `json:"section_id"`
	State            SectionState `json:"state"`
	// 含义同 SectionView.RemainingSeconds
	RemainingSeconds int64        `json:"remaining_seconds"`
	ServerTime       time.Time    `json:"server_time"`
	Submitted        bool         `json:"submitted"`
}

func summarize(a *model.Assessment) AssessmentSummary {
	return AssessmentSummary{
		ID:         a.ID,
		Title:      a.Title,
		Type:       a.Type,
		TotalMarks: a.TotalMarks,
		CreatedAt:  a.CreatedAt,
	}
}

func (s *AssessmentService) ListAssessments(ctx context.Context, access *Access) ([]AssessmentSummary, error) {
	as, err := s.Repo.ListByClassroom(ctx, access.Classroom.ID)
	if err != nil {
		return nil, util.WrapError(util.KindPersistenceFailure, "could not list assessments", err)
	}
	out := make([]AssessmentSummary, 0, len(as))
	for i := range as {
		out = append(out, summarize(&as[i]))
	}
	return out, nil
}

// GetAssessment 返回学生视角的测评。小节状态每次调用时计算，
// 只缓存静态的测评树
func (s *AssessmentService) GetAssessment(ctx context.Context, access *Access, assessmentID uint) (view *AssessmentView, err error) {
	ctx, span := tracing.StartSpan(ctx, "AssessmentService.GetAssessment",
		attribute.Int64("classroom.id", int64(access.Classroom.ID)),
		attribute.Int64("assessment.id", int64(assessmentID)),
	)
	defer func() { tracing.End(span, err) }()

	var cached AssessmentView
	key := repository.ViewKey(access.Classroom.ID, assessmentID)
	err = s.Cache.GetOrLoad(ctx, key, &cached, func() (interface{}, error) {
		a, err := s.loadTree(ctx, access.Classroom.ID, assessmentID)
		if err != nil {
			return nil, err
		}
		return buildStudentView(a), nil
	})
	if err != nil {
		return nil, err
	}

	cached.Classroom = ClassroomBrief{
		Name: access.Classroom.Name,
		Logo: s.Storage.GetURL(access.Classroom.LogoKey),
	}

	now := s.Now()
	for i := range cached.Sections {
		sec := &cached.Sections[i]
		sec.State = ComputeSectionState(now, sec.StartAt, sec.EndAt)
		sec.RemainingSeconds = SecondsUntilChange(now, sec.StartAt, sec.EndAt)
	}
	return &cached, nil
}

func (s *AssessmentService) loadTree(ctx context.Context, classroomID, assessmentID uint) (*model.Assessment, error) {
	a, err := s.Repo.FindTree(ctx, classroomID, assessmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NewError(util.KindNotFound, "Assessment not found")
		}
		return nil, util.WrapError(util.KindPersistenceFailure, "could not load assessment", err)
	}
	return a, nil
}

func buildStudentView(a *model.Assessment) *AssessmentView {
	view := &AssessmentView{
		Assessment: summarize(a),
		Sections:   make([]SectionView, 0, len(a.Sections)),
	}
	for _, sec := range a.Sections {
		sv := SectionView{
			ID:        sec.ID,
			Title:     sec.Title,
			StartAt:   sec.StartAt,
			EndAt:     sec.EndAt,
			Questions: make([]QuestionView, 0, len(sec.Questions)),
		}
		for _, q := range sec.Questions {
			qv := QuestionView{
				ID:           q.ID,
				QuestionText: q.QuestionText,
				QType:        q.QType,
				Marks:        q.Marks,
				Options:      []OptionView{},
			}
			if q.IsMCQ() {
				for _, o := range q.Options {
					qv.Options = append(qv.Options, OptionView{ID: o.ID, OptionText: o.OptionText})
				}
			}
			sv.Questions = append(sv.Questions, qv)
		}
		view.Sections = append(view.Sections, sv)
	}
	return view
}

// GetAssessmentForTeacher 返回包含答案的完整测评树
func (s *AssessmentService) GetAssessmentForTeacher(ctx context.Context, access *Access, assessmentID uint) (*model.Assessment, error) {
	return s.loadTree(ctx, access.Classroom.ID, assessmentID)
}

func (s *AssessmentService) SectionStatus(ctx context.Context, access *Access, assessmentID, sectionID uint) (*SectionStatus, error) {
	sec, err := s.Repo.FindSection(ctx, access.Classroom.ID, assessmentID, sectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NewError(util.KindNotFound, "Section not found")
		}
		return nil, util.WrapError(util.KindPersistenceFailure, "could not load section", err)
	}
	submitted, err := s.SubmissionRepo.WithContext(ctx).Exists(sec.ID, access.UserID)
	if err != nil {
		return nil, util.WrapError(util.KindPersistenceFailure, "could not check submission", err)
	}
	now := s.Now()
	return &SectionStatus{
		SectionID:        sec.ID,
		State:            ComputeSectionState(now, sec.StartAt, sec.EndAt),
		RemainingSeconds: SecondsUntilChange(now, sec.StartAt, sec.EndAt),
		ServerTime:       now,
		Submitted:        submitted,
	}, nil
}

type OptionRequest struct {
	OptionText string `json:"option_text" binding:"required"`
	IsCorrect  bool   `json:"is_correct"`
}

type QuestionRequest struct {
	QuestionText string          `json:"question_text" binding:"required"`
	QType        string          `json:"q_type" binding:"required,oneof=mcq text"`
	Marks        int             `json:"marks" binding:"min=0"`
	Options      []OptionRequest `json:"options" binding:"dive"`
}

type SectionRequest struct {
	Title     string            `json:"title" binding:"required"`
	StartAt   time.Time         `json:"start_at" binding:"required"`
	EndAt     time.Time         `json:"end_at" binding:"required"`
	Questions []QuestionRequest `json:"questions" binding:"dive"`
}

type CreateAssessmentRequest struct {
	Title      string           `json:"title" binding:"required"`
	Type       string           `json:"type"`
	TotalMarks *int             `json:"total_marks"`
	Sections   []SectionRequest `json:"sections" binding:"required,min=1,dive"`
}

// Validate 校验 gin binding 表达不了的结构规则
func (r *CreateAssessmentRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return util.NewError(util.KindInvalidPayload, "title is required")
	}
	if len(r.Sections) == 0 {
		return util.NewError(util.KindInvalidPayload, "at least one section is required")
	}
	for i, sec := range r.Sections {
		if !sec.StartAt.Before(sec.EndAt) {
			return util.NewError(util.KindInvalidPayload, fmt.Sprintf("section %d: start_at must be before end_at", i+1))
		}
		for j, q := range sec.Questions {
			if q.Marks < 0 {
				return util.NewError(util.KindInvalidPayload, fmt.Sprintf("section %d question %d: marks must not be negative", i+1, j+1))
			}
			switch q.QType {
			case model.QuestionTypeMCQ:
				if len(q.Options) < 2 {
					return util.NewError(util.KindInvalidPayload, fmt.Sprintf("section %d question %d: mcq needs at least two options", i+1, j+1))
				}
				correct := 0
				for _, o := range q.Options {
					if o.IsCorrect {
						correct++
					}
				}
				if correct != 1 {
					return util.NewError(util.KindInvalidPayload, fmt.Sprintf("section %d question %d: mcq needs exactly one correct option", i+1, j+1))
				}
			case model.QuestionTypeText:
				if len(q.Options) > 0 {
					return util.NewError(util.KindInvalidPayload, fmt.Sprintf("section %d question %d: text questions take no options", i+1, j+1))
				}
			default:
				return util.NewError(util.KindInvalidPayload, fmt.Sprintf("section %d question %d: unknown q_type %q", i+1, j+1, q.QType))
			}
		}
	}
	if r.TotalMarks != nil && *r.TotalMarks < 0 {
		return util.NewError(util.KindInvalidPayload, "total_marks must not be negative")
	}
	return nil
}

func (s *AssessmentService) CreateAssessment(ctx context.Context, access *Access, req CreateAssessmentRequest) (*model.Assessment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	a := &model.Assessment{
		ClassroomID: access.Classroom.ID,
		Title:       strings.TrimSpace(req.Title),
		Type:        req.Type,
		CreatedBy:   access.UserID,
	}
	sum := 0
	for _, sr := range req.Sections {
		sec := model.AssessmentSection{
			Title:   sr.Title,
			StartAt: sr.StartAt,
			EndAt:   sr.EndAt,
		}
		for _, qr := range sr.Questions {
			q := model.AssessmentQuestion{
				QuestionText: qr.QuestionText,
				QType:        qr.QType,
				Marks:        qr.Marks,
			}
			for _, or := range qr.Options {
				q.Options = append(q.Options, model.AssessmentOption{OptionText: or.OptionText, IsCorrect: or.IsCorrect})
			}
			sum += qr.Marks
			sec.Questions = append(sec.Questions, q)
		}
		a.Sections = append(a.Sections, sec)
	}
	a.TotalMarks = sum
	if req.TotalMarks != nil {
		a.TotalMarks = *req.TotalMarks
	}

	if err := s.Repo.Create(ctx, a); err != nil {
		return nil, util.WrapError(util.KindPersistenceFailure, "could not create assessment", err)
	}

	logger.Log.Info("Assessment created",
		zap.Uint("assessment_id", a.ID),
		zap.Uint("classroom_id", a.ClassroomID),
		zap.Int("sections", len(a.Sections)),
	)
	return a, nil
}

type RescheduleRequest struct {
	StartAt time.Time `json:"start_at" binding:"required"`
	EndAt   time.Time `json:"end_at" binding:"required"`
}

func (s *AssessmentService) RescheduleSection(ctx context.Context, access *Access, assessmentID, sectionID uint, req RescheduleRequest) (*model.AssessmentSection, error) {
	if !req.StartAt.Before(req.EndAt) {
		return nil, util.NewError(util.KindInvalidPayload, "start_at must be before end_at")
	}
	sec, err := s.Repo.FindSection(ctx, access.Classroom.ID, assessmentID, sectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NewError(util.KindNotFound, "Section not found")
		}
		return nil, util.WrapError(util.KindPersistenceFailure, "could not load section", err)
	}
	if err := s.Repo.UpdateSectionWindow(ctx, sec.ID, req.StartAt, req.EndAt); err != nil {
		return nil, util.WrapError(util.KindPersistenceFailure, "could not reschedule section", err)
	}
	s.Cache.Invalidate(ctx, access.Classroom.ID, assessmentID)

	sec.StartAt = req.StartAt
	sec.EndAt = req.EndAt
	return sec, nil
}
