package service

import (
	"classroom_portal/internal/model"
	"classroom_portal/internal/repository"
	"classroom_portal/internal/util"
	"classroom_portal/pkg/logger"
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
)

var (
	TimetableDays  = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	TimetableSlots = []string{"08:00-10:00", "10:00-12:00", "13:00-15:00", "15:00-17:00"}
)

const (
	timetableNoticeTitle   = "New Timetable Published"
	timetableNoticeMessage = "The timetable has been updated."
	defaultNoticeLimit     = 20
	maxNoticeLimit         = 100
)

func indexOf(list []string, v string) int {
	for i, s := range list {
		if s == v {
			return i
		}
	}
	return -1
}

type TimetableService struct {
	Repo          *repository.TimetableRepository
	UserRepo      *repository.UserRepository
	ClassroomRepo *repository.ClassroomRepository
}

func NewTimetableService(repo *repository.TimetableRepository, userRepo *repository.UserRepository, classroomRepo *repository.ClassroomRepository) *TimetableService {
	return &TimetableService{Repo: repo, UserRepo: userRepo, ClassroomRepo: classroomRepo}
}

func keys(set map[uint]struct{}) []uint {
	ids := make([]uint, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}

type TimetableEntryInput struct {
	ClassroomID uint   `json:"classroom_id" binding:"required"`
	Day         string `json:"day" binding:"required"`
	TimeSlot    string `json:"time_slot" binding:"required"`
	ModuleName  string `json:"module_name"`
	TeacherID   uint   `json:"teacher_id"`
}

type SaveTimetableRequest struct {
	Entries []TimetableEntryInput `json:"entries" binding:"dive"`
}

type TimetableResult struct {
	Days    []string               `json:"days"`
	Slots   []string               `json:"slots"`
	Entries []model.TimetableEntry `json:"entries"`
}

// GetTimetable 按课堂、星期、时段排序返回课表
func (s *TimetableService) GetTimetable(ctx context.Context) (*TimetableResult, error) {
	entries, err := s.Repo.List(ctx)
	if err != nil {
		return nil, util.WrapError(util.KindPersistenceFailure, "could not load timetable", err)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.ClassroomID != b.ClassroomID {
			return a.ClassroomID < b.ClassroomID
		}
		if da, db := indexOf(TimetableDays, a.Day), indexOf(TimetableDays, b.Day); da != db {
			return da < db
		}
		return indexOf(TimetableSlots, a.TimeSlot) < indexOf(TimetableSlots, b.TimeSlot)
	})
	return &TimetableResult{Days: TimetableDays, Slots: TimetableSlots, Entries: entries}, nil
}

// SaveTimetable 替换整张课表，
// 没有课程名或教师的格子保持为空
func (s *TimetableService) SaveTimetable(ctx context.Context, req SaveTimetableRequest) (int, error) {
	entries := make([]model.TimetableEntry, 0, len(req.Entries))
	seen := make(map[string]struct{}, len(req.Entries))
	teacherIDs := make(map[uint]struct{})
	classroomIDs := make(map[uint]struct{})

	for i, in := range req.Entries {
		if indexOf(TimetableDays, in.Day) < 0 {
			return 0, util.NewError(util.KindInvalidPayload, fmt.Sprintf("entry %d: unknown day %q", i+1, in.Day))
		}
		if indexOf(TimetableSlots, in.TimeSlot) < 0 {
			return 0, util.NewError(util.KindInvalidPayload, fmt.Sprintf("entry %d: unknown time slot %q", i+1, in.TimeSlot))
		}
		name := strings.TrimSpace(in.ModuleName)
		if name == "" || in.TeacherID == 0 {
			continue
		}
		key := fmt.Sprintf("%d|%s|%s", in.ClassroomID, in.Day, in.TimeSlot)
		if _, dup := seen[key]; dup {
			return 0, util.NewError(util.KindInvalidPayload, fmt.Sprintf("entry %d: slot %s %s filled twice", i+1, in.Day, in.TimeSlot))
		}
		seen[key] = struct{}{}
		teacherIDs[in.TeacherID] = struct{}{}
		classroomIDs[in.ClassroomID] = struct{}{}
		entries = append(entries, model.TimetableEntry{
			ClassroomID: in.ClassroomID,
			Day:         in.Day,
			TimeSlot:    in.TimeSlot,
			ModuleName:  name,
			TeacherID:   in.TeacherID,
		})
	}

	// 只允许引用已存在的课堂和教师
	if len(classroomIDs) > 0 {
		ids := keys(classroomIDs)
		n, err := s.ClassroomRepo.CountByIDs(ctx, ids)
		if err != nil {
			return 0, util.WrapError(util.KindPersistenceFailure, "could not check classrooms", err)
		}
		if int(n) != len(ids) {
			return 0, util.NewError(util.KindInvalidPayload, "timetable references unknown classrooms")
		}
	}
	if len(teacherIDs) > 0 {
		ids := keys(teacherIDs)
		n, err := s.UserRepo.CountByIDsAndRole(ctx, ids, model.Teacher)
		if err != nil {
			return 0, util.WrapError(util.KindPersistenceFailure, "could not check teachers", err)
		}
		if int(n) != len(ids) {
			return 0, util.NewError(util.KindInvalidPayload, "timetable references unknown teachers")
		}
	}

	notice := &model.Notification{Title: timetableNoticeTitle, Message: timetableNoticeMessage}
	if err := s.Repo.Replace(ctx, entries, notice); err != nil {
		return 0, util.WrapError(util.KindPersistenceFailure, "could not save timetable", err)
	}

	logger.Log.Info("Timetable published", zap.Int("entries", len(entries)))
	return len(entries), nil
}

func (s *TimetableService) ListNotifications(ctx context.Context, limit int) ([]model.Notification, error) {
	if limit <= 0 {
		limit = defaultNoticeLimit
	}
	if limit > maxNoticeLimit {
		limit = maxNoticeLimit
	}
	ns, err := s.Repo.ListNotifications(ctx, limit)
	if err != nil {
		return nil, util.WrapError(util.KindPersistenceFailure, "could not list notifications", err)
	}
	return ns, nil
}
