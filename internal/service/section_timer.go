package service

import (
	"classroom_portal/internal/util"
	"classroom_portal/pkg/logger"
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

type SectionState string

const (
	StateLocked  SectionState = "LOCKED"
	StateOpen    SectionState = "OPEN"
	StateExpired SectionState = "EXPIRED"
)

// ComputeSectionState 以 [startAt, endAt] 划分状态，
// 两个端点都属于开放状态
func ComputeSectionState(now, startAt, endAt time.Time) SectionState {
	if now.Before(startAt) {
		return StateLocked
	}
	if now.After(endAt) {
		return StateExpired
	}
	return StateOpen
}

// RemainingSeconds 距 endAt 的整秒数，不会为负
func RemainingSeconds(now, endAt time.Time) int64 {
	d := endAt.Sub(now)
	if d <= 0 {
		return 0
	}
	return int64(d / time.Second)
}

// SecondsUntilChange 客户端显示的倒计时：锁定时为距开始的秒数，
// 开放时为距结束的秒数，过期后为 0
func SecondsUntilChange(now, startAt, endAt time.Time) int64 {
	if ComputeSectionState(now, startAt, endAt) == StateLocked {
		return RemainingSeconds(now, startAt)
	}
	return RemainingSeconds(now, endAt)
}

// Tick 运行中的倒计时每个周期上报的内容
type Tick struct {
	Remaining int64
	State     SectionState
}

// SubmitFunc 提交小节答案，到期触发时 auto 为 true
type SubmitFunc func(ctx context.Context, auto bool) error

const DefaultTickInterval = time.Second

// SectionCountdown 在客户端驱动一个开放中的小节，最多提交一次：
// 首次观察到过期的 tick 或 SubmitManual，
// 以先发生者为准
type SectionCountdown struct {
	SectionID uint
	StartAt   time.Time
	EndAt     time.Time
	Interval  time.Duration
	Now       func() time.Time
	// OnTick 中不能调用 Stop 或 SubmitManual
	OnTick func(Tick)

	submit SubmitFunc
	once   sync.Once
	fired  atomic.Bool
	auto   atomic.Bool
	err    error

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewSectionCountdown(sectionID uint, startAt, endAt time.Time, submit SubmitFunc) *SectionCountdown {
	return &SectionCountdown{
		SectionID: sectionID,
		StartAt:   startAt,
		EndAt:     endAt,
		Interval:  DefaultTickInterval,
		Now:       time.Now,
		submit:    submit,
	}
}

// Start 开始计时。锁定的小节不能启动，已过结束时间的也不能，
// 因此从未按时打开的小节永远不会被自动提交
func (c *SectionCountdown) Start(ctx context.Context) error {
	switch ComputeSectionState(c.Now(), c.StartAt, c.EndAt) {
	case StateLocked:
		return util.NewError(util.KindSectionLocked, "Locked until start")
	case StateExpired:
		return util.NewError(util.KindSectionClosed, "Section ended")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return nil
	}
	runCtx, cancel := context.WithCancel(ctx)
	c.started = true
	c.cancel = cancel
	c.done = make(chan struct{})
	go c.run(runCtx, c.done)
	return nil
}

func (c *SectionCountdown) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	interval := c.Interval
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if c.Poll(ctx) {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if c.Poll(ctx) {
				return
			}
		}
	}
}

// Poll 计算一次倒计时，返回是否已结束。
// 首次观察到过期的调用执行自动提交，所用 context 不会被 Stop 取消，
// 到期时停止也不会丢失提交
func (c *SectionCountdown) Poll(ctx context.Context) bool {
	if c.fired.Load() {
		return true
	}
	now := c.Now()
	state := ComputeSectionState(now, c.StartAt, c.EndAt)
	if c.OnTick != nil {
		c.OnTick(Tick{Remaining: RemainingSeconds(now, c.EndAt), State: state})
	}
	if state != StateExpired {
		return false
	}
	c.fire(context.WithoutCancel(ctx), true)
	return true
}

// fire 只执行一次提交，返回本次调用是否执行了提交
func (c *SectionCountdown) fire(ctx context.Context, auto bool) (bool, error) {
	ran := false
	c.once.Do(func() {
		ran = true
		c.fired.Store(true)
		c.auto.Store(auto)
		c.err = c.submit(ctx, auto)
		if c.err != nil {
			logger.Log.Warn("Section submission failed",
				zap.Uint("section_id", c.SectionID),
				zap.Bool("auto", auto),
				zap.Error(c.err),
			)
		}
	})
	return ran, c.err
}

// SubmitManual 取消待执行的自动提交并立即提交，
// 已经提交过时返回 DuplicateSubmission
func (c *SectionCountdown) SubmitManual(ctx context.Context) error {
	ran, err := c.fire(ctx, false)
	c.Stop()
	if !ran {
		return util.NewError(util.KindDuplicateSubmission, "Section already submitted")
	}
	return err
}

// Stop 停止计时并等待计时 goroutine 退出
func (c *SectionCountdown) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (c *SectionCountdown) Submitted() bool {
	return c.fired.Load()
}

// AutoSubmitted 提交是否由到期触发而非学生手动触发
func (c *SectionCountdown) AutoSubmitted() bool {
	return c.auto.Load()
}

// Submitter 把一个小节的答案发送到服务端
type Submitter interface {
	Submit(ctx context.Context, req SubmitAnswersRequest) (*SubmissionResult, error)
}

type SubmitterFunc func(ctx context.Context, req SubmitAnswersRequest) (*SubmissionResult, error)

func (f SubmitterFunc) Submit(ctx context.Context, req SubmitAnswersRequest) (*SubmissionResult, error) {
	return f(ctx, req)
}

// CountdownResult 每个小节提交尝试后上报一次
type CountdownResult struct {
	SectionID uint
	Auto      bool
	Result    *SubmissionResult
	Err       error
}

type openSection struct {
	section   SectionView
	countdown *SectionCountdown
	answers   map[uint]AnswerInput
}

// CountdownRegistry 表示一个学生的答题会话：可同时打开多个小节，
// 每个小节有各自的倒计时和答题卡
type CountdownRegistry struct {
	AssessmentID uint
	Submitter    Submitter
	Interval     time.Duration
	Now          func() time.Time
	OnTick       func(sectionID uint, t Tick)
	// OnResult 在提交过程中调用，不能再次提交
	OnResult func(CountdownResult)

	mu       sync.Mutex
	sections map[uint]*openSection
}

func NewCountdownRegistry(assessmentID uint, submitter Submitter) *CountdownRegistry {
	return &CountdownRegistry{
		AssessmentID: assessmentID,
		Submitter:    submitter,
		Interval:     DefaultTickInterval,
		Now:          time.Now,
		sections:     make(map[uint]*openSection),
	}
}

// Open 启动小节的倒计时，重复打开不做任何事
func (r *CountdownRegistry) Open(ctx context.Context, section SectionView) error {
	r.mu.Lock()
	if _, ok := r.sections[section.ID]; ok {
		r.mu.Unlock()
		return nil
	}
	sheet := &openSection{section: section, answers: make(map[uint]AnswerInput)}
	cd := NewSectionCountdown(section.ID, section.StartAt, section.EndAt, func(ctx context.Context, auto bool) error {
		return r.send(ctx, section.ID, auto)
	})
	cd.Interval = r.Interval
	cd.Now = r.Now
	if r.OnTick != nil {
		cd.OnTick = func(t Tick) { r.OnTick(section.ID, t) }
	}
	sheet.countdown = cd
	r.sections[section.ID] = sheet
	r.mu.Unlock()

	if err := cd.Start(ctx); err != nil {
		r.mu.Lock()
		delete(r.sections, section.ID)
		r.mu.Unlock()
		return err
	}
	return nil
}

// Capture 记录开放小节中某道题的当前答案
func (r *CountdownRegistry) Capture(sectionID uint, answer AnswerInput) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sheet, ok := r.sections[sectionID]
	if !ok {
		return util.NewError(util.KindNotFound, "Section is not open")
	}
	if sheet.countdown.Submitted() {
		return util.NewError(util.KindDuplicateSubmission, "Section already submitted")
	}
	for _, q := range sheet.section.Questions {
		if q.ID == answer.QuestionID {
			sheet.answers[answer.QuestionID] = answer
			return nil
		}
	}
	return util.NewError(util.KindQuestionNotFound, "Question not in section")
}

// Submit 小节的手动提交按钮
func (r *CountdownRegistry) Submit(ctx context.Context, sectionID uint) error {
	r.mu.Lock()
	sheet, ok := r.sections[sectionID]
	r.mu.Unlock()
	if !ok {
		return util.NewError(util.KindNotFound, "Section is not open")
	}
	return sheet.countdown.SubmitManual(ctx)
}

// Poll 驱动所有打开的倒计时各一次，供自行控制时钟的调用方使用
func (r *CountdownRegistry) Poll(ctx context.Context) {
	r.mu.Lock()
	cds := make([]*SectionCountdown, 0, len(r.sections))
	for _, sheet := range r.sections {
		cds = append(cds, sheet.countdown)
	}
	r.mu.Unlock()
	for _, cd := range cds {
		cd.Poll(ctx)
	}
}

// Close 停止所有倒计时且不提交。
// 正在进行的自动提交会在 Close 返回前完成
func (r *CountdownRegistry) Close() {
	r.mu.Lock()
	cds := make([]*SectionCountdown, 0, len(r.sections))
	for _, sheet := range r.sections {
		cds = append(cds, sheet.countdown)
	}
	r.mu.Unlock()
	for _, cd := range cds {
		cd.Stop()
	}
}

// BuildRequest 按显示顺序为小节每道题生成一条答案，
// 未作答的题目不带选项也不带文本
func (r *CountdownRegistry) BuildRequest(sectionID uint, auto bool) (SubmitAnswersRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sheet, ok := r.sections[sectionID]
	if !ok {
		return SubmitAnswersRequest{}, util.NewError(util.KindNotFound, "Section is not open")
	}
	req := SubmitAnswersRequest{
		AssessmentID:  r.AssessmentID,
		SectionID:     sectionID,
		AutoSubmitted: auto,
		Answers:       make([]AnswerInput, 0, len(sheet.section.Questions)),
	}
	for _, q := range sheet.section.Questions {
		if a, ok := sheet.answers[q.ID]; ok {
			req.Answers = append(req.Answers, a)
			continue
		}
		req.Answers = append(req.Answers, AnswerInput{QuestionID: q.ID})
	}
	return req, nil
}

func (r *CountdownRegistry) send(ctx context.Context, sectionID uint, auto bool) error {
	req, err := r.BuildRequest(sectionID, auto)
	if err != nil {
		return err
	}
	res, err := r.Submitter.Submit(ctx, req)
	if r.OnResult != nil {
		r.OnResult(CountdownResult{SectionID: sectionID, Auto: auto, Result: res, Err: err})
	}
	return err
}
