package fetch_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/adamwoolhether/fetchio/fetch"
)

func TestFormData(t *testing.T) {
	f := fetch.NewFormData()
	f.Append("tag", "a")
	f.Append("name", "gopher")
	f.Append("tag", "b")
	f.Append("avatar", "binary", "me.png")

	if v, ok := f.Get("tag"); !ok || v != "a" {
		t.Errorf("Get(tag) = %q, %v; want a, true", v, ok)
	}
	if diff := cmp.Diff([]string{"a", "b"}, f.GetAll("tag")); diff != "" {
		t.Errorf("GetAll mismatch (-want +got):\n%s", diff)
	}
	if name, ok := f.Filename("avatar"); !ok || name != "me.png" {
		t.Errorf("Filename(avatar) = %q, %v", name, ok)
	}
	if _, ok := f.Filename("name"); ok {
		t.Error("plain field must not report a filename")
	}
	if _, ok := f.Get("missing"); ok || f.Has("missing") {
		t.Error("missing field reported as present")
	}

	exp := [][2]string{{"tag", "a"}, {"name", "gopher"}, {"tag", "b"}, {"avatar", "binary"}}
	if diff := cmp.Diff(exp, f.Entries()); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"tag", "name", "tag", "avatar"}, f.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "gopher", "b", "binary"}, f.Values()); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestFormData_SetAndDelete(t *testing.T) {
	f := fetch.NewFormData()
	f.Append("tag", "a")
	f.Append("keep", "1")
	f.Append("tag", "b")

	f.Set("tag", "c")
	exp := [][2]string{{"keep", "1"}, {"tag", "c"}}
	if diff := cmp.Diff(exp, f.Entries()); diff != "" {
		t.Errorf("after Set (-want +got):\n%s", diff)
	}

	f.Delete("tag")
	if f.Has("tag") || f.Len() != 1 {
		t.Errorf("after Delete: %v", f.Entries())
	}
}

func TestFormData_ForEachAndClone(t *testing.T) {
	f := fetch.NewFormData()
	f.Append("a", "1")
	f.Append("b", "2")

	var seen [][2]string
	f.ForEach(func(value, name string, owner *fetch.FormData) {
		seen = append(seen, [2]string{name, value})
		owner.Append("late", "x")
	})
	if diff := cmp.Diff([][2]string{{"a", "1"}, {"b", "2"}}, seen); diff != "" {
		t.Errorf("ForEach mismatch (-want +got):\n%s", diff)
	}

	c := f.Clone()
	c.Set("a", "changed")
	if v, _ := f.Get("a"); v != "1" {
		t.Errorf("clone shares storage: a=%q", v)
	}

	var nilForm *fetch.FormData
	if nilForm.Clone() != nil {
		t.Error("nil clone must be nil")
	}
}
