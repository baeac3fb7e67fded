package tests

import (
	"os"
	"testing"

	"github.com/aimelive/mcsa-awards/core"
)

func TestMain(m *testing.M) {
	// expose handler error messages instead of raw error text
	core.Conf.Debug = false
	core.Conf.TestMode = true

	os.Exit(m.Run())
}
