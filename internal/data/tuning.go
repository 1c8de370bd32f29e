package data

import "math"

// WaveLength is the run time, in seconds, covered by one wave.
const WaveLength = 30.0

// WaveAt derives the wave number from elapsed run seconds.
func WaveAt(elapsed float64) int {
	if elapsed < 0 {
		elapsed = 0
	}
	return 1 + int(math.Floor(elapsed/WaveLength))
}

// Tuning supplies the wave-indexed difficulty curve and meta prices.
type Tuning interface {
	SpawnInterval(wave int) float64
	SpawnCount(wave int) int
	EnemyHPScale(wave int) float64
	EnemyDamageScale(wave int) float64
	MetaCost(def *MetaDef, level int) int
}

// DefaultTuning is the built-in curve.
type DefaultTuning struct{}

func (DefaultTuning) SpawnInterval(wave int) float64 {
	return math.Max(0.5, 2-0.1*float64(wave))
}

func (DefaultTuning) SpawnCount(wave int) int {
	return min(3, 1+wave/3)
}

func (DefaultTuning) EnemyHPScale(wave int) float64 {
	return 1 + float64(wave-1)*0.1
}

func (DefaultTuning) EnemyDamageScale(wave int) float64 {
	return 1 + float64(wave-1)*0.05
}

func (DefaultTuning) MetaCost(def *MetaDef, level int) int {
	return def.BaseCost + def.CostPerLevel*level
}
