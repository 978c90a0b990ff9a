package snapshot

import (
	"strings"
	"testing"
)

func TestRotation(t *testing.T) {
	c, a, b := TemporaryTarget(TempCopy), TemporaryTarget(TempEffect1), TemporaryTarget(TempEffect2)
	r := NewRotation(c, a, b)

	if r.Last() != c {
		t.Errorf("Last() before Next = %v, want %v", r.Last(), c)
	}

	want := [][2]Target{{c, a}, {a, b}, {b, a}, {a, b}, {b, a}}
	for i, w := range want {
		src, dst := r.Next()
		if src != w[0] || dst != w[1] {
			t.Errorf("Next() #%d = %v -> %v, want %v -> %v", i, src, dst, w[0], w[1])
		}
	}
	if r.Last() != a {
		t.Errorf("Last() = %v, want %v", r.Last(), a)
	}
}

func TestPropertyToID(t *testing.T) {
	a := PropertyToID("_TestProperty")
	b := PropertyToID("_TestProperty")
	if a != b {
		t.Errorf("PropertyToID not stable: %d vs %d", a, b)
	}
	if a.Name() != "_TestProperty" {
		t.Errorf("Name() = %q, want _TestProperty", a.Name())
	}
	if PropertyToID("_Other") == a {
		t.Error("distinct names share an ID")
	}
	if got := PropertyID(-1).Name(); got != "" {
		t.Errorf("PropertyID(-1).Name() = %q, want empty", got)
	}
}

func TestCommandSequenceString(t *testing.T) {
	seq := NewCommandSequence("dump")
	seq.GetTemporary(TempCopy, 64, 32, FilterPoint)
	seq.Blit(BackBufferTarget(), TemporaryTarget(TempCopy), nil, 0)
	seq.SetGlobalVector(PropEffectFactor, Vec4{1, 0, 0, 0})
	seq.Blit(TemporaryTarget(TempCopy), TemporaryTarget(TempEffect1), &fakeMaterial{name: "m"}, PassBlur)
	seq.ReleaseTemporary(TempCopy)

	got := seq.String()
	for _, want := range []string{
		"GetTemporary _ScreenCopyId 64x32 Point",
		"Blit backbuffer -> _ScreenCopyId",
		"SetGlobalVector _EffectFactor [1 0 0 0]",
		"Blit _ScreenCopyId -> _EffectId1 m#1",
		"ReleaseTemporary _ScreenCopyId",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("String() missing %q:\n%s", want, got)
		}
	}

	if seq.Len() != 5 || len(seq.Blits()) != 2 {
		t.Errorf("Len() = %d, Blits() = %d; want 5, 2", seq.Len(), len(seq.Blits()))
	}
	seq.Clear()
	if seq.Len() != 0 || seq.Name != "dump" {
		t.Errorf("after Clear: Len() = %d, Name = %q", seq.Len(), seq.Name)
	}
}
