package service

import (
	"classroom_portal/internal/util"
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSectionState(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want SectionState
	}{
		{"开始前一秒", sectionStart.Add(-time.Second), StateLocked},
		{"开始时刻", sectionStart, StateOpen},
		{"中途", sectionStart.Add(15 * time.Minute), StateOpen},
		{"结束时刻", sectionEnd, StateOpen},
		{"结束后一纳秒", sectionEnd.Add(time.Nanosecond), StateExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeSectionState(tt.now, sectionStart, sectionEnd))
		})
	}
}

func TestRemainingSeconds(t *testing.T) {
	assert.Equal(t, int64(1800), RemainingSeconds(sectionStart, sectionEnd))
	assert.Equal(t, int64(1799), RemainingSeconds(sectionStart.Add(500*time.Millisecond), sectionEnd))
	assert.Equal(t, int64(0), RemainingSeconds(sectionEnd, sectionEnd))
	assert.Equal(t, int64(0), RemainingSeconds(sectionEnd.Add(time.Hour), sectionEnd))
}

func TestSecondsUntilChange(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want int64
	}{
		{"锁定时距开始", sectionStart.Add(-2 * time.Minute), 120},
		{"开始时刻距结束", sectionStart, 1800},
		{"开放中距结束", sectionEnd.Add(-45 * time.Second), 45},
		{"过期为零", sectionEnd.Add(time.Second), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SecondsUntilChange(tt.now, sectionStart, sectionEnd))
		})
	}
}

type countingSubmit struct {
	calls atomic.Int32
	auto  atomic.Bool
	err   error
}

func (s *countingSubmit) fn(ctx context.Context, auto bool) error {
	s.calls.Add(1)
	s.auto.Store(auto)
	return s.err
}

func newTestCountdown(clock *fakeClock, sub *countingSubmit) *SectionCountdown {
	cd := NewSectionCountdown(1, sectionStart, sectionEnd, sub.fn)
	cd.Now = clock.Now
	cd.Interval = time.Hour
	return cd
}

func TestSectionCountdownStart(t *testing.T) {
	t.Run("未开始不能启动", func(t *testing.T) {
		cd := newTestCountdown(newFakeClock(sectionStart.Add(-time.Minute)), &countingSubmit{})
		err := cd.Start(context.Background())
		assert.Equal(t, util.KindSectionLocked, util.KindOf(err))
	})

	t.Run("已结束不能启动也不会自动提交", func(t *testing.T) {
		sub := &countingSubmit{}
		cd := newTestCountdown(newFakeClock(sectionEnd.Add(time.Minute)), sub)
		err := cd.Start(context.Background())
		assert.Equal(t, util.KindSectionClosed, util.KindOf(err))
		assert.Equal(t, int32(0), sub.calls.Load())
		assert.False(t, cd.Submitted())
	})

	t.Run("重复启动无副作用", func(t *testing.T) {
		cd := newTestCountdown(newFakeClock(sectionStart), &countingSubmit{})
		require.NoError(t, cd.Start(context.Background()))
		require.NoError(t, cd.Start(context.Background()))
		cd.Stop()
	})
}

func TestSectionCountdownPoll(t *testing.T) {
	clock := newFakeClock(sectionStart.Add(29 * time.Minute))
	sub := &countingSubmit{}
	cd := newTestCountdown(clock, sub)

	var ticks []Tick
	cd.OnTick = func(tk Tick) { ticks = append(ticks, tk) }

	assert.False(t, cd.Poll(context.Background()))
	require.Len(t, ticks, 1)
	assert.Equal(t, Tick{Remaining: 60, State: StateOpen}, ticks[0])

	clock.Set(sectionEnd.Add(time.Second))
	assert.True(t, cd.Poll(context.Background()))
	assert.True(t, cd.Poll(context.Background()))
	assert.Equal(t, int32(1), sub.calls.Load())
	assert.True(t, sub.auto.Load())
	assert.True(t, cd.AutoSubmitted())
	require.Len(t, ticks, 2)
	assert.Equal(t, Tick{Remaining: 0, State: StateExpired}, ticks[1])

	err := cd.SubmitManual(context.Background())
	assert.Equal(t, util.KindDuplicateSubmission, util.KindOf(err))
	assert.Equal(t, int32(1), sub.calls.Load())
}

func TestSectionCountdownManualCancelsAuto(t *testing.T) {
	clock := newFakeClock(sectionStart.Add(time.Minute))
	sub := &countingSubmit{}
	cd := newTestCountdown(clock, sub)
	require.NoError(t, cd.Start(context.Background()))

	require.NoError(t, cd.SubmitManual(context.Background()))
	assert.False(t, sub.auto.Load())
	assert.False(t, cd.AutoSubmitted())

	clock.Set(sectionEnd.Add(time.Minute))
	assert.True(t, cd.Poll(context.Background()))
	assert.Equal(t, int32(1), sub.calls.Load())

	err := cd.SubmitManual(context.Background())
	assert.Equal(t, util.KindDuplicateSubmission, util.KindOf(err))
}

func TestSectionCountdownSubmitError(t *testing.T) {
	sub := &countingSubmit{err: errors.New("network down")}
	cd := newTestCountdown(newFakeClock(sectionStart), sub)

	err := cd.SubmitManual(context.Background())
	assert.EqualError(t, err, "network down")
	assert.True(t, cd.Submitted())

	err = cd.SubmitManual(context.Background())
	assert.Equal(t, util.KindDuplicateSubmission, util.KindOf(err))
}

func TestSectionCountdownConcurrentSubmit(t *testing.T) {
	clock := newFakeClock(sectionEnd.Add(time.Second))
	sub := &countingSubmit{}
	cd := newTestCountdown(clock, sub)

	var wg sync.WaitGroup
	var manualOK atomic.Int32
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			cd.Poll(context.Background())
		}()
		go func() {
			defer wg.Done()
			if cd.SubmitManual(context.Background()) == nil {
				manualOK.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), sub.calls.Load())
	assert.LessOrEqual(t, manualOK.Load(), int32(1))
	assert.Equal(t, manualOK.Load() == 0, cd.AutoSubmitted())
}

func TestSectionCountdownTicker(t *testing.T) {
	clock := newFakeClock(sectionStart.Add(time.Minute))
	fired := make(chan bool, 1)
	cd := NewSectionCountdown(1, sectionStart, sectionEnd, func(ctx context.Context, auto bool) error {
		fired <- auto
		return nil
	})
	cd.Now = clock.Now
	cd.Interval = 5 * time.Millisecond

	var ticks atomic.Int32
	cd.OnTick = func(Tick) { ticks.Add(1) }

	require.NoError(t, cd.Start(context.Background()))
	defer cd.Stop()

	assert.Eventually(t, func() bool { return ticks.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	select {
	case <-fired:
		t.Fatal("submitted before expiry")
	default:
	}

	clock.Set(sectionEnd.Add(time.Second))
	select {
	case auto := <-fired:
		assert.True(t, auto)
	case <-time.After(2 * time.Second):
		t.Fatal("countdown did not submit on expiry")
	}
	assert.True(t, cd.Submitted())
}

func TestSectionCountdownStopWithoutSubmit(t *testing.T) {
	clock := newFakeClock(sectionStart)
	sub := &countingSubmit{}
	cd := newTestCountdown(clock, sub)
	cd.Interval = time.Millisecond
	require.NoError(t, cd.Start(context.Background()))
	cd.Stop()

	clock.Set(sectionEnd.Add(time.Minute))
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(0), sub.calls.Load())
}

type recordingSubmitter struct {
	mu   sync.Mutex
	reqs []SubmitAnswersRequest
}

func (r *recordingSubmitter) Submit(ctx context.Context, req SubmitAnswersRequest) (*SubmissionResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reqs = append(r.reqs, req)
	return &SubmissionResult{SubmissionID: "sub-1"}, nil
}

func testSectionView(id uint, start, end time.Time, questionIDs ...uint) SectionView {
	sv := SectionView{ID: id, Title: "Part", StartAt: start, EndAt: end}
	for _, q := range questionIDs {
		sv.Questions = append(sv.Questions, QuestionView{ID: q, QType: "mcq", Marks: 1})
	}
	return sv
}

func TestCountdownRegistry(t *testing.T) {
	clock := newFakeClock(sectionStart.Add(time.Minute))
	rec := &recordingSubmitter{}
	reg := NewCountdownRegistry(3, rec)
	reg.Now = clock.Now
	reg.Interval = time.Hour
	defer reg.Close()

	var results []CountdownResult
	reg.OnResult = func(r CountdownResult) { results = append(results, r) }

	ctx := context.Background()
	later := testSectionView(2, sectionEnd, sectionEnd.Add(time.Hour), 30)
	err := reg.Open(ctx, later)
	assert.Equal(t, util.KindSectionLocked, util.KindOf(err))
	err = reg.Capture(2, AnswerInput{QuestionID: 30})
	assert.Equal(t, util.KindNotFound, util.KindOf(err))

	open := testSectionView(1, sectionStart, sectionEnd, 10, 11, 12)
	require.NoError(t, reg.Open(ctx, open))
	require.NoError(t, reg.Open(ctx, open))

	t.Run("记录答案", func(t *testing.T) {
		require.NoError(t, reg.Capture(1, AnswerInput{QuestionID: 12, SelectedOptionID: uintPtr(99)}))
		require.NoError(t, reg.Capture(1, AnswerInput{QuestionID: 10, SelectedOptionID: uintPtr(1)}))
		require.NoError(t, reg.Capture(1, AnswerInput{QuestionID: 10, SelectedOptionID: uintPtr(2)}))

		err := reg.Capture(1, AnswerInput{QuestionID: 30})
		assert.Equal(t, util.KindQuestionNotFound, util.KindOf(err))
	})

	t.Run("按题目顺序生成请求", func(t *testing.T) {
		req, err := reg.BuildRequest(1, false)
		require.NoError(t, err)
		assert.Equal(t, uint(3), req.AssessmentID)
		assert.Equal(t, uint(1), req.SectionID)
		require.Len(t, req.Answers, 3)
		assert.Equal(t, AnswerInput{QuestionID: 10, SelectedOptionID: uintPtr(2)}, req.Answers[0])
		assert.Equal(t, AnswerInput{QuestionID: 11}, req.Answers[1])
		assert.Equal(t, uint(12), req.Answers[2].QuestionID)

		_, err = reg.BuildRequest(7, false)
		assert.Equal(t, util.KindNotFound, util.KindOf(err))
	})

	t.Run("手动提交", func(t *testing.T) {
		require.NoError(t, reg.Submit(ctx, 1))
		require.Len(t, rec.reqs, 1)
		assert.False(t, rec.reqs[0].AutoSubmitted)
		require.Len(t, results, 1)
		assert.Equal(t, "sub-1", results[0].Result.SubmissionID)

		err := reg.Capture(1, AnswerInput{QuestionID: 11})
		assert.Equal(t, util.KindDuplicateSubmission, util.KindOf(err))
		err = reg.Submit(ctx, 1)
		assert.Equal(t, util.KindDuplicateSubmission, util.KindOf(err))
		err = reg.Submit(ctx, 9)
		assert.Equal(t, util.KindNotFound, util.KindOf(err))
	})

	t.Run("到期不再自动提交", func(t *testing.T) {
		clock.Set(sectionEnd.Add(time.Second))
		reg.Poll(ctx)
		assert.Len(t, rec.reqs, 1)
	})
}

func TestCountdownRegistryIndependentSections(t *testing.T) {
	clock := newFakeClock(sectionStart.Add(time.Minute))
	rec := &recordingSubmitter{}
	reg := NewCountdownRegistry(3, rec)
	reg.Now = clock.Now
	reg.Interval = time.Hour
	defer reg.Close()

	ctx := context.Background()
	require.NoError(t, reg.Open(ctx, testSectionView(1, sectionStart, sectionEnd, 10)))
	require.NoError(t, reg.Open(ctx, testSectionView(2, sectionStart, sectionEnd.Add(time.Hour), 20)))

	clock.Set(sectionEnd.Add(time.Second))
	reg.Poll(ctx)

	require.Len(t, rec.reqs, 1)
	assert.Equal(t, uint(1), rec.reqs[0].SectionID)
	assert.True(t, rec.reqs[0].AutoSubmitted)
	require.NoError(t, reg.Capture(2, AnswerInput{QuestionID: 20, AnswerText: strPtr("still open")}))
}

type blockingSubmitter struct {
	started chan struct{}
	release chan struct{}
	ctxErr  atomic.Value
}

func (b *blockingSubmitter) Submit(ctx context.Context, req SubmitAnswersRequest) (*SubmissionResult, error) {
	close(b.started)
	<-b.release
	b.ctxErr.Store(fmt.Sprint(ctx.Err()))
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &SubmissionResult{SubmissionID: "auto-1"}, nil
}

func TestCountdownRegistryCloseDuringAutoSubmit(t *testing.T) {
	clock := newFakeClock(sectionStart.Add(time.Minute))
	sub := &blockingSubmitter{started: make(chan struct{}), release: make(chan struct{})}
	reg := NewCountdownRegistry(3, sub)
	reg.Now = clock.Now
	reg.Interval = 5 * time.Millisecond

	results := make(chan CountdownResult, 1)
	reg.OnResult = func(r CountdownResult) { results <- r }

	require.NoError(t, reg.Open(context.Background(), testSectionView(1, sectionStart, sectionEnd, 10)))
	clock.Set(sectionEnd.Add(time.Second))

	select {
	case <-sub.started:
	case <-time.After(2 * time.Second):
		t.Fatal("automatic submission did not start")
	}

	closed := make(chan struct{})
	go func() {
		reg.Close()
		close(closed)
	}()
	select {
	case <-closed:
		t.Fatal("Close returned while the submission was in flight")
	case <-time.After(20 * time.Millisecond):
	}

	close(sub.release)
	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not return")
	}

	res := <-results
	assert.True(t, res.Auto)
	require.NoError(t, res.Err)
	assert.Equal(t, "auto-1", res.Result.SubmissionID)
	assert.Equal(t, "<nil>", sub.ctxErr.Load())
}
