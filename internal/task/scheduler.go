// Package task 后台定时任务
package task

import (
	"context"
	"time"

	"github.com/pulse-beyond/pulse-beyond/pkg/logger"
	"github.com/pulse-beyond/pulse-beyond/pkg/safe_close"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Task 定义任务接口
type Task interface {
	Name() string                  // 任务名称
	Spec() string                  // cron 表达式（分 时 日 月 周），为空时只在启动时执行
	IsStartupRun() bool            // 是否启动时立即执行一次
	Run(ctx context.Context) error // 执行任务
}

// cronLogger adapts zap to cron.Logger
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}

// Scheduler runs tasks on cron schedules until the close signal fires.
// A run that is still in progress when its next tick arrives is skipped.
//
// Scheduler 按 cron 表达式调度任务，收到关闭信号后停止
type Scheduler struct {
	logger *zap.Logger
	sc     *safe_close.SafeClose
	cron   *cron.Cron
	tasks  []Task

	ctx    context.Context
	cancel context.CancelFunc
}

// NewScheduler 创建任务调度器
func NewScheduler(lg *zap.Logger, sc *safe_close.SafeClose) *Scheduler {
	if lg == nil {
		lg = zap.NewNop()
	}
	cl := cronLogger{s: lg.Sugar()}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		logger: lg,
		sc:     sc,
		cron: cron.New(
			cron.WithLocation(time.Local),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		ctx:    ctx,
		cancel: cancel,
	}
}

// AddTask 添加任务，cron 表达式非法时返回错误
func (s *Scheduler) AddTask(task Task) error {
	if spec := task.Spec(); spec != "" {
		if _, err := s.cron.AddFunc(spec, func() { s.run(task, "cron") }); err != nil {
			return err
		}
	}
	s.tasks = append(s.tasks, task)
	return nil
}

// Tasks 已注册的任务
func (s *Scheduler) Tasks() []Task {
	return s.tasks
}

// Start 启动调度，并在关闭信号到来时停止 cron、等待运行中的任务结束
func (s *Scheduler) Start() {
	if len(s.tasks) == 0 {
		s.logger.Info("no tasks to schedule")
		return
	}

	s.logger.Info("tasks starting", zap.Int("count", len(s.tasks)))

	for _, task := range s.tasks {
		if task.IsStartupRun() {
			go s.run(task, "startup")
		}
	}
	s.cron.Start()

	if s.sc == nil {
		return
	}
	s.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()
		<-closeSignal
		s.Stop()
	})
}

// Stop cancels running tasks and waits for them
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	s.logger.Info("tasks stopped")
}

// run 执行单次任务，panic 只记录不扩散
func (s *Scheduler) run(task Task, trigger string) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("task panic",
				zap.String("name", task.Name()),
				zap.String("trigger", trigger),
				zap.Any("panic", r),
				zap.Stack("stack"))
		}
	}()

	if s.ctx.Err() != nil {
		return
	}

	err := task.Run(s.ctx)
	fields := []zap.Field{
		zap.String("name", task.Name()),
		zap.String("trigger", trigger),
		zap.Duration(logger.FieldDuration, time.Since(start)),
	}
	if err != nil {
		s.logger.Error("task running error", append(fields, zap.Error(err))...)
		return
	}
	s.logger.Info("task done", fields...)
}
