package platform

import "testing"

func TestIs64Bit(t *testing.T) {
	tests := []struct {
		arch Arch
		want bool
	}{
		{X86_64, true},
		{AArch64, true},
		{PowerPc64, true},
		{X86, false},
		{Arm, false},
	}
	for _, tt := range tests {
		p := Platform{Arch: tt.arch}
		if got := p.Is64Bit(); got != tt.want {
			t.Errorf("Platform{Arch: %s}.Is64Bit() = %v, want %v", tt.arch, got, tt.want)
		}
	}
}

func TestValidateRejectsMuslOffLinux(t *testing.T) {
	p := Platform{OS: MacOS, Arch: AArch64, IsMusl: true}
	if err := p.Validate(); err == nil {
		t.Error("expected Validate to reject IsMusl on a non-Linux OS")
	}
}

func TestValidateAllowsMuslOnLinux(t *testing.T) {
	p := Platform{OS: Linux, Arch: X86_64, IsMusl: true}
	if err := p.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestHostReturnsValidPlatform(t *testing.T) {
	p, err := Host()
	if err != nil {
		t.Fatalf("Host: %v", err)
	}
	if p.OS == "" || p.Arch == "" {
		t.Errorf("Host() returned incomplete platform: %+v", p)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("Host() returned an invalid platform: %v", err)
	}
}
