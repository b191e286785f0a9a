package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/wordflinger/config"
	"github.com/pthm-cable/wordflinger/game"
)

// levelWeight is the fitness value of one completed level, in damage points.
const levelWeight = 200

// FitnessEvaluator runs headless sessions and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int32
	seeds      []int64
	words      []string
	flingEvery int32
	baseConfig *config.Config

	mu         sync.Mutex
	lastSpread float64 // std dev of per-seed scores in the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, words []string, flingEvery int32, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		seeds:      seeds,
		words:      words,
		flingEvery: max(flingEvery, 1),
		baseConfig: baseCfg,
	}
}

// LastSpread returns the per-seed score spread from the most recent evaluation.
func (fe *FitnessEvaluator) LastSpread() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastSpread
}

// runResult holds the results from a single session run.
type runResult struct {
	damage          int
	levelsCompleted int
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Seeds run in parallel, each on its own session.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)

	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSession(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	scores := make([]float64, len(results))
	for i, r := range results {
		scores[i] = score(r)
	}
	mean, std := stat.MeanStdDev(scores, nil)
	if math.IsNaN(std) {
		std = 0
	}

	fe.mu.Lock()
	fe.lastSpread = std
	fe.mu.Unlock()

	return -mean
}

// runSession plays the word list with one seed and reports what it broke.
func (fe *FitnessEvaluator) runSession(cfg *config.Config, seed int64) runResult {
	s, err := game.NewSession(cfg, game.Options{Seed: seed})
	if err != nil {
		return runResult{}
	}
	defer s.Close()

	queue := fe.words
	for tick := int32(0); tick < fe.maxTicks; tick++ {
		if len(queue) > 0 && tick%fe.flingEvery == 0 {
			s.FlingWord(queue[0], nil)
			queue = queue[1:]
		}
		s.Update()
	}

	totals := s.Totals()
	return runResult{
		damage:          totals.DamageDealt,
		levelsCompleted: totals.LevelsCompleted,
	}
}

// score is the per-run objective (higher = better).
func score(r runResult) float64 {
	return float64(r.damage) + levelWeight*float64(r.levelsCompleted)
}
