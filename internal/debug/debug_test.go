package debug

import "testing"

func TestVerboseToggle(t *testing.T) {
	SetVerbose(false)
	defer SetVerbose(false)

	if Enabled() && !enabled {
		t.Error("Enabled() = true with verbose off and no env override")
	}

	SetVerbose(true)
	if !Enabled() {
		t.Error("Enabled() = false after SetVerbose(true)")
	}
}

func TestQuietToggle(t *testing.T) {
	SetQuiet(false)
	defer SetQuiet(false)

	if IsQuiet() {
		t.Error("IsQuiet() = true before SetQuiet")
	}
	SetQuiet(true)
	if !IsQuiet() {
		t.Error("IsQuiet() = false after SetQuiet(true)")
	}
}
