package service

import (
	"classroom_portal/internal/model"
	"classroom_portal/internal/repository"
	"classroom_portal/internal/util"
	"classroom_portal/pkg/logger"
	"classroom_portal/pkg/monitoring"
	"classroom_portal/pkg/tracing"
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SubmissionService struct {
	DB             *gorm.DB
	Repo           *repository.SubmissionRepository
	AssessmentRepo *repository.AssessmentRepository
	Now            func() time.Time

	grace atomic.Int64
}

func NewSubmissionService(db *gorm.DB, repo *repository.SubmissionRepository, assessmentRepo *repository.AssessmentRepository, grace time.Duration) *SubmissionService {
	s := &SubmissionService{
		DB:             db,
		Repo:           repo,
		AssessmentRepo: assessmentRepo,
		Now:            time.Now,
	}
	s.UpdateGrace(grace)
	return s
}

// UpdateGrace 修改 end_at 之后仍接受提交的时长
func (s *SubmissionService) UpdateGrace(d time.Duration) {
	if d < 0 {
		d = 0
	}
	s.grace.Store(int64(d))
}

func (s *SubmissionService) Grace() time.Duration {
	return time.Duration(s.grace.Load())
}

type AnswerInput struct {
	QuestionID       uint    `json:"question_id"`
	SelectedOptionID *uint   `json:"selected_option_id"`
	AnswerText       *string `json:"answer_text"`
}

type SubmitAnswersRequest struct {
	AssessmentID  uint          `json:"assessment_id"`
	SectionID     uint          `json:"section_id"`
	AutoSubmitted bool          `json:"auto_submitted"`
	Answers       []AnswerInput `json:"answers"`
}

// Validate 拒绝无法评分的请求，允许空答案列表
func (r *SubmitAnswersRequest) Validate() error {
	if r.AssessmentID == 0 || r.SectionID == 0 {
		return util.NewError(util.KindInvalidPayload, "Missing fields")
	}
	if r.Answers == nil {
		return util.NewError(util.KindInvalidPayload, "answers must be an array")
	}
	seen := make(map[uint]struct{}, len(r.Answers))
	for i, a := range r.Answers {
		if a.QuestionID == 0 {
			return util.NewError(util.KindInvalidPayload, fmt.Sprintf("answer %d: question_id is required", i+1))
		}
		if _, dup := seen[a.QuestionID]; dup {
			return util.NewError(util.KindInvalidPayload, fmt.Sprintf("question %d answered twice", a.QuestionID))
		}
		seen[a.QuestionID] = struct{}{}
	}
	return nil
}

type QuestionResult struct {
	QuestionID uint `json:"question_id"`
	Awarded    int  `json:"awarded"`
	Marks      int  `json:"marks"`
}

type SubmissionResult struct {
	SubmissionID string           `json:"submission_id"`
	TotalAwarded int              `json:"total_awarded"`
	Details      []QuestionResult `json:"details"`
}

// ScoreAnswer 为一条答案评分。选择题只有所选选项属于该题且为正确选项时得满分，
// 没有可用选项时返回的 selection 为 nil。
// 文本题始终为 0 分
func ScoreAnswer(q *model.AssessmentQuestion, in AnswerInput) (int, *uint) {
	if !q.IsMCQ() {
		return 0, nil
	}
	if in.SelectedOptionID == nil || *in.SelectedOptionID == 0 {
		return 0, nil
	}
	for _, o := range q.Options {
		if o.ID != *in.SelectedOptionID {
			continue
		}
		id := o.ID
		if o.IsCorrect {
			return q.Marks, &id
		}
		return 0, &id
	}
	return 0, nil
}

// SubmitterFor 把服务绑定到一次门禁结果，供 CountdownRegistry 使用
func (s *SubmissionService) SubmitterFor(access *Access) Submitter {
	return SubmitterFunc(func(ctx context.Context, req SubmitAnswersRequest) (*SubmissionResult, error) {
		return s.SubmitAnswers(ctx, access, req)
	})
}

// SubmitAnswers 在一个事务中为小节提交评分并保存，
// 任何答案无法解析时不写入任何数据
func (s *SubmissionService) SubmitAnswers(ctx context.Context, access *Access, req SubmitAnswersRequest) (res *SubmissionResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "SubmissionService.SubmitAnswers",
		attribute.Int64("classroom.id", int64(access.Classroom.ID)),
		attribute.Int64("assessment.id", int64(req.AssessmentID)),
		attribute.Int64("section.id", int64(req.SectionID)),
		attribute.Bool("submission.auto", req.AutoSubmitted),
	)
	defer func() {
		tracing.End(span, err)
		outcome, total := "ok", 0
		if err != nil {
			outcome = string(util.KindOf(err))
		} else {
			total = res.TotalAwarded
		}
		monitoring.ObserveSubmission(outcome, req.AutoSubmitted, total)
	}()

	if access.Role != model.Student {
		return nil, util.NewError(util.KindForbidden, "Only students submit answers")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := s.Now()
	grace := s.Grace()
	result := &SubmissionResult{
		SubmissionID: uuid.New().String(),
		Details:      make([]QuestionResult, 0, len(req.Answers)),
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.Repo.WithTx(tx)

		sec, err := repo.LockOwnedSection(access.Classroom.ID, req.AssessmentID, req.SectionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.NewError(util.KindOwnershipMismatch, "Assessment/Section mismatch")
			}
			return util.WrapError(util.KindPersistenceFailure, "could not verify section", errors.Wrap(err, "lock section"))
		}

		if now.Before(sec.StartAt) {
			return util.NewError(util.KindSectionLocked, "Section has not started yet")
		}
		if now.After(sec.EndAt.Add(grace)) {
			return util.NewError(util.KindSectionClosed, "Section time is over")
		}

		exists, err := repo.Exists(sec.ID, access.UserID)
		if err != nil {
			return util.WrapError(util.KindPersistenceFailure, "could not check previous submission", errors.Wrap(err, "check submission"))
		}
		if exists {
			return util.NewError(util.KindDuplicateSubmission, "Section already submitted")
		}

		questions, err := repo.SectionQuestions(sec.ID)
		if err != nil {
			return util.WrapError(util.KindPersistenceFailure, "could not load questions", errors.Wrap(err, "load questions"))
		}
		byID := make(map[uint]*model.AssessmentQuestion, len(questions))
		for i := range questions {
			byID[questions[i].ID] = &questions[i]
		}

		rows := make([]model.AssessmentAnswer, 0, len(req.Answers))
		for _, in := range req.Answers {
			q, ok := byID[in.QuestionID]
			if !ok {
				return util.NewError(util.KindQuestionNotFound, fmt.Sprintf("Question %d not found or mismatch", in.QuestionID))
			}
			awarded, selected := ScoreAnswer(q, in)
			row := model.AssessmentAnswer{
				SubmissionID:     result.SubmissionID,
				AssessmentID:     req.AssessmentID,
				SectionID:        sec.ID,
				QuestionID:       q.ID,
				StudentID:        access.UserID,
				SelectedOptionID: selected,
				AwardedMarks:     awarded,
				SubmittedAt:      now,
			}
			if !q.IsMCQ() {
				row.AnswerText = in.AnswerText
			}
			rows = append(rows, row)
			result.TotalAwarded += awarded
			result.Details = append(result.Details, QuestionResult{QuestionID: q.ID, Awarded: awarded, Marks: q.Marks})
		}

		sub := &model.SectionSubmission{
			UUIDRecord:    model.UUIDRecord{ID: result.SubmissionID},
			AssessmentID:  req.AssessmentID,
			SectionID:     sec.ID,
			StudentID:     access.UserID,
			TotalAwarded:  result.TotalAwarded,
			AutoSubmitted: req.AutoSubmitted,
			SubmittedAt:   now,
		}
		if err := repo.Create(sub, rows); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return util.NewError(util.KindDuplicateSubmission, "Section already submitted")
			}
			return util.WrapError(util.KindPersistenceFailure, "could not save answers", errors.Wrap(err, "insert answers"))
		}
		return nil
	})
	if err != nil {
		var appErr *util.AppError
		if !errors.As(err, &appErr) {
			err = util.WrapError(util.KindPersistenceFailure, "could not save answers", errors.Wrap(err, "commit submission"))
		}
		logger.Log.Info("Section submission rejected",
			zap.Uint("classroom_id", access.Classroom.ID),
			zap.Uint("section_id", req.SectionID),
			zap.Uint("student_id", access.UserID),
			zap.String("kind", string(util.KindOf(err))),
		)
		return nil, err
	}

	logger.Log.Info("Section submitted",
		zap.String("submission_id", result.SubmissionID),
		zap.Uint("section_id", req.SectionID),
		zap.Uint("student_id", access.UserID),
		zap.Int("total_awarded", result.TotalAwarded),
		zap.Bool("auto", req.AutoSubmitted),
	)
	return result, nil
}

func (s *SubmissionService) ListSubmissions(ctx context.Context, access *Access, assessmentID, sectionID uint) ([]model.SectionSubmission, error) {
	if _, err := s.AssessmentRepo.FindSection(ctx, access.Classroom.ID, assessmentID, sectionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NewError(util.KindNotFound, "Section not found")
		}
		return nil, util.WrapError(util.KindPersistenceFailure, "could not load section", err)
	}
	subs, err := s.Repo.ListBySection(ctx, sectionID)
	if err != nil {
		return nil, util.WrapError(util.KindPersistenceFailure, "could not list submissions", err)
	}
	return subs, nil
}

// MySubmissions 列出调用者自己在该测评下的提交
func (s *SubmissionService) MySubmissions(ctx context.Context, access *Access, assessmentID uint) ([]model.SectionSubmission, error) {
	if _, err := s.AssessmentRepo.FindByID(ctx, access.Classroom.ID, assessmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NewError(util.KindNotFound, "Assessment not found")
		}
		return nil, util.WrapError(util.KindPersistenceFailure, "could not load assessment", err)
	}
	subs, err := s.Repo.ListByStudent(ctx, assessmentID, access.UserID)
	if err != nil {
		return nil, util.WrapError(util.KindPersistenceFailure, "could not list submissions", err)
	}
	return subs, nil
}

type GradeAnswerRequest struct {
	Marks *int `json:"marks" binding:"required"`
}

type GradeAnswerResult struct {
	AnswerID        uint   `json:"answer_id"`
	SubmissionID    string `json:"submission_id"`
	AwardedMarks    int    `json:"awarded_marks"`
	SubmissionTotal int    `json:"submission_total"`
}

// GradeAnswer 为文本题答案打分并刷新提交总分
func (s *SubmissionService) GradeAnswer(ctx context.Context, access *Access, answerID uint, req GradeAnswerRequest) (*GradeAnswerResult, error) {
	if req.Marks == nil {
		return nil, util.NewError(util.KindInvalidPayload, "marks is required")
	}
	marks := *req.Marks
	now := s.Now()
	var result GradeAnswerResult

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.Repo.WithTx(tx)

		ans, err := repo.LockClassroomAnswer(access.Classroom.ID, answerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.NewError(util.KindNotFound, "Answer not found")
			}
			return util.WrapError(util.KindPersistenceFailure, "could not load answer", errors.Wrap(err, "lock answer"))
		}
		q, err := repo.FindQuestion(ans.QuestionID)
		if err != nil {
			return util.WrapError(util.KindPersistenceFailure, "could not load question", errors.Wrap(err, "load question"))
		}
		if q.IsMCQ() {
			return util.NewError(util.KindInvalidPayload, "Multiple choice answers are graded automatically")
		}
		if marks < 0 || marks > q.Marks {
			return util.NewError(util.KindInvalidPayload, fmt.Sprintf("marks must be between 0 and %d", q.Marks))
		}
		if err := repo.SaveGrade(ans.ID, marks, access.UserID, now); err != nil {
			return util.WrapError(util.KindPersistenceFailure, "could not save grade", errors.Wrap(err, "save grade"))
		}
		total, err := repo.RefreshTotal(ans.SubmissionID)
		if err != nil {
			return util.WrapError(util.KindPersistenceFailure, "could not update total", errors.Wrap(err, "refresh total"))
		}
		result = GradeAnswerResult{
			AnswerID:        ans.ID,
			SubmissionID:    ans.SubmissionID,
			AwardedMarks:    marks,
			SubmissionTotal: total,
		}
		return nil
	})
	if err != nil {
		var appErr *util.AppError
		if !errors.As(err, &appErr) {
			err = util.WrapError(util.KindPersistenceFailure, "could not save grade", err)
		}
		return nil, err
	}

	logger.Log.Info("Answer graded",
		zap.Uint("answer_id", answerID),
		zap.Uint("grader_id", access.UserID),
		zap.Int("marks", marks),
	)
	return &result, nil
}
