package buildinfo

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()
	if info.Version != Version || info.Commit != Commit || info.Date != Date {
		t.Errorf("Get() = %+v", info)
	}
	if !strings.HasPrefix(info.Go, "go") && info.Go != "devel" {
		t.Errorf("Go = %q", info.Go)
	}
}

func TestTemplate(t *testing.T) {
	if !strings.Contains(Template(), Version) {
		t.Errorf("Template() = %q, missing version", Template())
	}
	if got := UserAgent(); got != "tether/"+Version {
		t.Errorf("UserAgent() = %q", got)
	}
}
