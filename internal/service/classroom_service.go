package service

import (
	"bytes"
	"classroom_portal/internal/model"
	"classroom_portal/internal/repository"
	"classroom_portal/internal/util"
	"classroom_portal/pkg/logger"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const maxCodeAttempts = 5

type ClassroomService struct {
	Repo     *repository.ClassroomRepository
	UserRepo *repository.UserRepository
	Storage  *StorageService
	Access   *AccessService
	Now      func() time.Time
}

func NewClassroomService(repo *repository.ClassroomRepository, userRepo *repository.UserRepository,
	storage *StorageService, access *AccessService) *ClassroomService {
	return &ClassroomService{
		Repo:     repo,
		UserRepo: userRepo,
		Storage:  storage,
		Access:   access,
		Now:      time.Now,
	}
}

type CreateClassroomRequest struct {
	Name      string   `json:"name" binding:"required,max=255"`
	TeacherID *uint    `json:"teacher_id"`
	Days      []string `json:"days"`
	StartTime string   `json:"start_time" binding:"omitempty,hhmm"`
	EndTime   string   `json:"end_time" binding:"omitempty,hhmm"`
}

type EnrollRequest struct {
	StudentIDs []uint `json:"student_ids" binding:"required,min=1,dive,gt=0"`
}

type EnrollResult struct {
	Requested int   `json:"requested"`
	Enrolled  int64 `json:"enrolled"`
}

// NewClassroomCode 用本地日期和随机后缀生成 CLS-<YYYYMMDD>-<XXXX>
func NewClassroomCode(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:4])
	return fmt.Sprintf("CLS-%s-%s", now.Format("20060102"), suffix)
}

func (s *ClassroomService) CreateClassroom(ctx context.Context, req CreateClassroomRequest) (*model.Classroom, error) {
	sched := Schedule{Days: req.Days, Start: req.StartTime, End: req.EndTime}
	if err := sched.Validate(); err != nil {
		return nil, util.NewError(util.KindInvalidPayload, err.Error())
	}

	if req.TeacherID != nil {
		if _, err := s.UserRepo.FindByIDAndRole(ctx, *req.TeacherID, model.Teacher); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.NewError(util.KindInvalidPayload, "teacher_id is not a teacher")
			}
			return nil, util.WrapError(util.KindPersistenceFailure, "could not check teacher", err)
		}
	}

	classroom := &model.Classroom{
		Name:      strings.TrimSpace(req.Name),
		TeacherID: req.TeacherID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if len(req.Days) > 0 {
		raw, err := json.Marshal(req.Days)
		if err != nil {
			return nil, util.WrapError(util.KindInvalidPayload, "invalid days", err)
		}
		classroom.Days = datatypes.JSON(raw)
	}

	now := s.Now().In(s.Access.Location())
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := NewClassroomCode(now)
		exists, err := s.Repo.CodeExists(ctx, code)
		if err != nil {
			return nil, util.WrapError(util.KindPersistenceFailure, "could not check classroom code", err)
		}
		if exists {
			continue
		}
		classroom.Code = code
		err = s.Repo.Create(ctx, classroom)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		if err != nil {
			return nil, util.WrapError(util.KindPersistenceFailure, "could not create classroom", err)
		}
		logger.Log.Info("Classroom created",
			zap.Uint("classroom_id", classroom.ID),
			zap.String("code", classroom.Code),
		)
		return classroom, nil
	}
	return nil, util.NewError(util.KindPersistenceFailure, "could not allocate a unique classroom code")
}

func (s *ClassroomService) findByCode(ctx context.Context, code string) (*model.Classroom, error) {
	if !ValidClassroomCode(code) {
		return nil, util.NewError(util.KindInvalidIdentifier, "Invalid classroom code")
	}
	classroom, err := s.Repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NewError(util.KindNotFound, "Classroom not found")
		}
		return nil, util.WrapError(util.KindPersistenceFailure, "could not load classroom", err)
	}
	return classroom, nil
}

func (s *ClassroomService) EnrollStudents(ctx context.Context, code string, req EnrollRequest) (*EnrollResult, error) {
	classroom, err := s.findByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	unique := make([]uint, 0, len(req.StudentIDs))
	seen := make(map[uint]struct{}, len(req.StudentIDs))
	for _, id := range req.StudentIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	n, err := s.UserRepo.CountByIDsAndRole(ctx, unique, model.Student)
	if err != nil {
		return nil, util.WrapError(util.KindPersistenceFailure, "could not check students", err)
	}
	if int(n) != len(unique) {
		return nil, util.NewError(util.KindInvalidPayload, "student_ids contains users that are not students")
	}

	added, err := s.Repo.Enroll(ctx, classroom.ID, unique)
	if err != nil {
		return nil, util.WrapError(util.KindPersistenceFailure, "could not enroll students", err)
	}
	logger.Log.Info("Students enrolled",
		zap.String("code", classroom.Code),
		zap.Int("requested", len(unique)),
		zap.Int64("enrolled", added),
	)
	return &EnrollResult{Requested: len(unique), Enrolled: added}, nil
}

// UploadLogo 识别文件类型，保存图片并记录存储 key
func (s *ClassroomService) UploadLogo(ctx context.Context, code, filename string, reader io.Reader, size int64) (string, error) {
	classroom, err := s.findByCode(ctx, code)
	if err != nil {
		return "", err
	}
	if size > util.MaxLogoSize {
		return "", util.NewError(util.KindInvalidPayload, "logo exceeds 2MB")
	}

	head := make([]byte, util.SniffLength)
	n, err := io.ReadFull(reader, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", util.WrapError(util.KindInvalidPayload, "could not read upload", err)
	}
	head = head[:n]
	mimeType, ext, err := util.DetectImage(head)
	if err != nil {
		return "", util.WrapError(util.KindInvalidPayload, "logo must be an image", err)
	}
	key := fmt.Sprintf("classrooms/%s/logo-%s%s", classroom.Code, uuid.NewString()[:8], ext)

	body := io.MultiReader(bytes.NewReader(head), reader)
	if err := s.Storage.Upload(ctx, key, body, size, mimeType); err != nil {
		return "", util.WrapError(util.KindPersistenceFailure, "could not store logo", errors.Wrap(err, "upload"))
	}
	if err := s.Repo.UpdateLogo(ctx, classroom.ID, key); err != nil {
		return "", util.WrapError(util.KindPersistenceFailure, "could not save logo", err)
	}
	if classroom.LogoKey != "" {
		if err := s.Storage.Delete(ctx, classroom.LogoKey); err != nil {
			logger.Log.Warn("Old logo not removed", zap.String("key", classroom.LogoKey), zap.Error(err))
		}
	}
	logger.Log.Info("Classroom logo updated",
		zap.String("code", classroom.Code),
		zap.String("filename", filename),
		zap.String("key", key),
	)
	return *s.Storage.GetURL(key), nil
}
