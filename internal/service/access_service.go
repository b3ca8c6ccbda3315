package service

import (
	"classroom_portal/internal/model"
	"classroom_portal/internal/repository"
	"classroom_portal/internal/util"
	"classroom_portal/pkg/logger"
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ValidClassroomCode 判断编号是否为 CLS-YYYYMMDD-XXXX 格式
func ValidClassroomCode(code string) bool {
	return util.IsClassroomCode(code)
}

// Access 门禁校验通过后的请求级结果
type Access struct {
	Classroom *model.Classroom
	UserID    uint
	Role      model.UserRole
}

type AccessService struct {
	ClassroomRepo *repository.ClassroomRepository
	UserRepo      *repository.UserRepository
	Now           func() time.Time

	location atomic.Pointer[time.Location]
}

func NewAccessService(classroomRepo *repository.ClassroomRepository, userRepo *repository.UserRepository, loc *time.Location) *AccessService {
	s := &AccessService{
		ClassroomRepo: classroomRepo,
		UserRepo:      userRepo,
		Now:           time.Now,
	}
	s.SetLocation(loc)
	return s
}

// SetLocation 替换课表判断使用的时区
func (s *AccessService) SetLocation(loc *time.Location) {
	if loc == nil {
		loc = time.Local
	}
	s.location.Store(loc)
}

func (s *AccessService) Location() *time.Location {
	return s.location.Load()
}

// Authorize 对一个请求执行门禁：编号格式、课堂查找、
// 调用者身份与角色、成员关系，最后是每周课表
func (s *AccessService) Authorize(ctx context.Context, code string, desired model.UserRole, claims *util.Claims) (*Access, error) {
	if !ValidClassroomCode(code) {
		return nil, util.NewError(util.KindInvalidIdentifier, "Invalid classroom code.")
	}

	classroom, err := s.ClassroomRepo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NewError(util.KindNotFound, "Classroom not found.")
		}
		return nil, util.WrapError(util.KindPersistenceFailure, "could not load classroom", err)
	}

	if claims == nil || claims.UserID == 0 || claims.Role != desired {
		if desired == model.Teacher {
			return nil, util.NewError(util.KindUnauthenticated, "Teacher login required.")
		}
		return nil, util.NewError(util.KindUnauthenticated, "Student login required.")
	}

	switch desired {
	case model.Teacher:
		if _, err := s.UserRepo.FindByIDAndRole(ctx, claims.UserID, model.Teacher); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.NewError(util.KindForbidden, "Teacher record not found.")
			}
			return nil, util.WrapError(util.KindPersistenceFailure, "could not load teacher", err)
		}
		if classroom.TeacherID != nil && *classroom.TeacherID != claims.UserID {
			return nil, util.NewError(util.KindForbidden, "Teacher is not assigned to this classroom.")
		}
	case model.Student:
		ok, err := s.ClassroomRepo.IsEnrolled(ctx, classroom.ID, claims.UserID)
		if err != nil {
			return nil, util.WrapError(util.KindPersistenceFailure, "could not check enrollment", err)
		}
		if !ok {
			return nil, util.NewError(util.KindForbidden, "Student not registered in this classroom.")
		}
	default:
		return nil, util.NewError(util.KindForbidden, "Role cannot enter a classroom.")
	}

	days, err := classroom.ScheduleDays()
	if err != nil {
		logger.Log.Warn("Ignoring malformed classroom days", zap.String("code", classroom.Code), zap.Error(err))
		days = nil
	}
	schedule := Schedule{Days: days, Start: classroom.StartTime, End: classroom.EndTime}
	reason, err := schedule.Check(s.Now().In(s.Location()))
	if err != nil {
		return nil, util.WrapError(util.KindForbidden, "Classroom schedule is misconfigured.", err)
	}
	if reason != "" {
		return nil, util.NewError(util.KindForbidden, reason)
	}

	return &Access{Classroom: classroom, UserID: claims.UserID, Role: desired}, nil
}
