package service

import (
	"classroom_portal/internal/repository"
	"classroom_portal/internal/util"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTimetableService(f *fixture) *TimetableService {
	return NewTimetableService(
		repository.NewTimetableRepository(f.db),
		repository.NewUserRepository(f.db),
		repository.NewClassroomRepository(f.db),
	)
}

func TestSaveTimetable(t *testing.T) {
	f := newFixture(t)
	svc := newTimetableService(f)
	ctx := context.Background()

	n, err := svc.SaveTimetable(ctx, SaveTimetableRequest{Entries: []TimetableEntryInput{
		{ClassroomID: f.classroom.ID, Day: "Wednesday", TimeSlot: "10:00-12:00", ModuleName: "Optics", TeacherID: f.teacher.ID},
		{ClassroomID: f.classroom.ID, Day: "Monday", TimeSlot: "13:00-15:00", ModuleName: " Mechanics ", TeacherID: f.teacher.ID},
		{ClassroomID: f.classroom.ID, Day: "Monday", TimeSlot: "08:00-10:00", ModuleName: "Waves", TeacherID: f.teacher.ID},
		{ClassroomID: f.classroom.ID, Day: "Friday", TimeSlot: "08:00-10:00", ModuleName: "", TeacherID: f.teacher.ID},
		{ClassroomID: f.classroom.ID, Day: "Friday", TimeSlot: "10:00-12:00", ModuleName: "Free", TeacherID: 0},
	}})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	tt, err := svc.GetTimetable(ctx)
	require.NoError(t, err)
	assert.Equal(t, TimetableDays, tt.Days)
	assert.Equal(t, TimetableSlots, tt.Slots)
	require.Len(t, tt.Entries, 3)
	assert.Equal(t, "Waves", tt.Entries[0].ModuleName)
	assert.Equal(t, "Mechanics", tt.Entries[1].ModuleName)
	assert.Equal(t, "Optics", tt.Entries[2].ModuleName)

	notices, err := svc.ListNotifications(ctx, 0)
	require.NoError(t, err)
	require.Len(t, notices, 1)
	assert.Equal(t, "New Timetable Published", notices[0].Title)

	t.Run("保存替换旧课表", func(t *testing.T) {
		n, err := svc.SaveTimetable(ctx, SaveTimetableRequest{Entries: []TimetableEntryInput{
			{ClassroomID: f.other.ID, Day: "Sunday", TimeSlot: "15:00-17:00", ModuleName: "Lab", TeacherID: f.teacher.ID},
		}})
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		tt, err := svc.GetTimetable(ctx)
		require.NoError(t, err)
		require.Len(t, tt.Entries, 1)
		assert.Equal(t, "Lab", tt.Entries[0].ModuleName)

		notices, err := svc.ListNotifications(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, notices, 1)
		all, err := svc.ListNotifications(ctx, 500)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("空课表也会发布通知", func(t *testing.T) {
		n, err := svc.SaveTimetable(ctx, SaveTimetableRequest{})
		require.NoError(t, err)
		assert.Equal(t, 0, n)
		tt, err := svc.GetTimetable(ctx)
		require.NoError(t, err)
		assert.Empty(t, tt.Entries)
	})
}

func TestSaveTimetableRejects(t *testing.T) {
	f := newFixture(t)
	svc := newTimetableService(f)
	ctx := context.Background()

	_, err := svc.SaveTimetable(ctx, SaveTimetableRequest{Entries: []TimetableEntryInput{
		{ClassroomID: f.classroom.ID, Day: "Monday", TimeSlot: "08:00-10:00", ModuleName: "Waves", TeacherID: f.teacher.ID},
	}})
	require.NoError(t, err)

	tests := []struct {
		name  string
		entry []TimetableEntryInput
	}{
		{"未知星期", []TimetableEntryInput{{ClassroomID: f.classroom.ID, Day: "Mon", TimeSlot: "08:00-10:00", ModuleName: "X", TeacherID: f.teacher.ID}}},
		{"未知时段", []TimetableEntryInput{{ClassroomID: f.classroom.ID, Day: "Monday", TimeSlot: "07:00-08:00", ModuleName: "X", TeacherID: f.teacher.ID}}},
		{"重复时段", []TimetableEntryInput{
			{ClassroomID: f.classroom.ID, Day: "Monday", TimeSlot: "08:00-10:00", ModuleName: "X", TeacherID: f.teacher.ID},
			{ClassroomID: f.classroom.ID, Day: "Monday", TimeSlot: "08:00-10:00", ModuleName: "Y", TeacherID: f.teacher.ID},
		}},
		{"课堂不存在", []TimetableEntryInput{{ClassroomID: 9999, Day: "Monday", TimeSlot: "08:00-10:00", ModuleName: "Ghost", TeacherID: f.teacher.ID}}},
		{"混入不存在的课堂", []TimetableEntryInput{
			{ClassroomID: f.classroom.ID, Day: "Tuesday", TimeSlot: "08:00-10:00", ModuleName: "X", TeacherID: f.teacher.ID},
			{ClassroomID: 9999, Day: "Tuesday", TimeSlot: "08:00-10:00", ModuleName: "Ghost", TeacherID: f.teacher.ID},
		}},
		{"学生不能授课", []TimetableEntryInput{{ClassroomID: f.classroom.ID, Day: "Monday", TimeSlot: "08:00-10:00", ModuleName: "X", TeacherID: f.students[0].ID}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SaveTimetable(ctx, SaveTimetableRequest{Entries: tt.entry})
			assert.Equal(t, util.KindInvalidPayload, util.KindOf(err))
		})
	}

	res, err := svc.GetTimetable(ctx)
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, "Waves", res.Entries[0].ModuleName)
}
