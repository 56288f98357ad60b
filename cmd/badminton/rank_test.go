package main

import (
	"path/filepath"
	"testing"
)

func TestShowRank(t *testing.T) {
	oldDB, oldProfile := flagDBPath, flagProfile
	oldAll, oldReset, oldTUI := flagRankAll, flagRankReset, flagRankTUI
	t.Cleanup(func() {
		flagDBPath, flagProfile = oldDB, oldProfile
		flagRankAll, flagRankReset, flagRankTUI = oldAll, oldReset, oldTUI
	})
	flagDBPath = filepath.Join(t.TempDir(), "rank.db")
	flagProfile = "alice"
	flagRankAll, flagRankReset, flagRankTUI = false, false, false

	for _, all := range []bool{false, true} {
		flagRankAll = all
		if err := showRank(); err != nil {
			t.Fatalf("showRank(all=%v): %v", all, err)
		}
	}

	flagRankReset = true
	if err := showRank(); err != nil {
		t.Fatalf("showRank(reset): %v", err)
	}
}
