package utils

import (
	"time"
)

// MinHotAge floors the elapsed time in the hot score so a post created this
// instant does not divide by zero.
const MinHotAge = time.Second

// HotScore 热度 = 净票数 / 发布以来的秒数（至少 1 秒）。
// Same score, older post: lower rank.
func HotScore(voteScore int64, createdAt, now time.Time) float64 {
	elapsed := now.Sub(createdAt)
	if elapsed < MinHotAge {
		elapsed = MinHotAge
	}
	return float64(voteScore) / elapsed.Seconds()
}
