package assets

import (
	"io/fs"
	"testing"
)

func TestDataContainsExports(t *testing.T) {
	for _, name := range []string{"lok_sabha_mps.json", "rajya_sabha_mps.json", "MPFUND.json"} {
		if _, err := fs.Stat(Data(), name); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}
