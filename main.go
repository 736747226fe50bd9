package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"a3c-go/a3c"
	"a3c-go/appconfig"
	"a3c-go/cartpole"
	"a3c-go/remoteenv"
)

func main() {
	cfg, err := appconfig.LoadAppConfig()
	if err != nil {
		log.Fatal(err.Error())
	}
	variant, err := a3c.ParseVariant(cfg.Variant)
	if err != nil {
		log.Fatal(err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	envs := make([]a3c.Environment, cfg.NumWorkers)
	for task := 0; task < cfg.NumWorkers; task++ {
		env, err := newEnv(cfg, task)
		if err != nil {
			log.Fatalf("failed to create environment for task %d: %v", task, err)
		}
		envs[task] = env
	}

	spec := envs[0].Spec()
	actorCfg := a3c.SoftmaxActorConfig{
		ObsSize:    spec.ObsSize * cfg.FrameStack,
		NumActions: spec.NumActions,
		HiddenSize: cfg.HiddenSize,
		Variant:    variant,
		RandomSeed: cfg.RandomSeed,
	}

	global := a3c.NewSoftmaxActor(actorCfg)
	store := a3c.NewSharedStore(global.Parameters(), a3c.NewAdam(float32(cfg.LearningRate)))
	stats := &a3c.TrainerStats{}

	g, ctx := errgroup.WithContext(ctx)
	for task := 0; task < cfg.NumWorkers; task++ {
		localCfg := actorCfg
		localCfg.RandomSeed = cfg.RandomSeed + int64(task)
		local := a3c.NewSoftmaxActor(localCfg)
		summary := a3c.NewLogSummaryWriter(fmt.Sprintf("worker-%d", task))

		envRunner := a3c.NewEnvRunner(envs[task], local, a3c.EnvRunnerConfig{
			SegmentLength: cfg.SegmentLength,
			FrameStack:    cfg.FrameStack,
			Render:        cfg.Render && task == 0,
		}, summary, store)
		runner := a3c.NewRunner(envRunner, cfg.QueueCapacity, cfg.QueueTimeout)
		trainer := a3c.NewTrainer(local, store, a3c.NewSoftmaxGradients(), runner, summary, variant, stats, a3c.TrainerConfig{
			Task:          task,
			Gamma:         float32(cfg.Gamma),
			Lambda:        float32(cfg.Lambda),
			GradClip:      float32(cfg.GradClip),
			SummaryPeriod: cfg.SummaryPeriod,
			QueueTimeout:  cfg.QueueTimeout,
		})

		g.Go(func() error { return runner.Run(ctx) })
		g.Go(func() error { return trainer.Run(ctx) })
	}

	bar := progressbar.Default(cfg.TotalSteps, "training")
	go func() {
		for {
			step := store.GlobalStep()
			bar.Set64(step)
			log.Printf("Global step: %d, updates: %d, transitions: %d, episodes: %d",
				step, stats.Updates.Load(), stats.Transitions.Load(), stats.Episodes.Load())
			if step >= cfg.TotalSteps {
				stop()
				return
			}
			<-time.After(time.Second * 30)
		}
	}()

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("worker failed: %v", err)
	}
	log.Printf("Training stopped at global step %d", store.GlobalStep())
}

func newEnv(cfg *appconfig.AppConfig, task int) (a3c.Environment, error) {
	if cfg.EnvAddr != "" {
		return remoteenv.Dial(cfg.EnvAddr)
	}
	return cartpole.New(cartpole.Config{
		RandomSeed:      cfg.RandomSeed + int64(task),
		MaxEpisodeSteps: cfg.MaxEpisodeSteps,
	}), nil
}
