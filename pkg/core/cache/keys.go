package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// ResultKey builds the cache key for an evaluation result. The exercise id
// is kept in clear text so all results of one exercise can be dropped with
// DeletePrefix(ExercisePrefix(id)) when the exercise is reloaded. The
// generation separates results of successive definitions under one id.
func ResultKey(exerciseID string, generation uint64, expression string) string {
	hash := sha256.Sum256([]byte(expression))
	return ExercisePrefix(exerciseID) + strconv.FormatUint(generation, 10) + ":" + hex.EncodeToString(hash[:16])
}

// ExercisePrefix returns the key prefix shared by all results of an exercise
func ExercisePrefix(exerciseID string) string {
	return "eval:" + exerciseID + ":"
}
