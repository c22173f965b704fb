package hub

import (
	"reflect"
	"testing"
)

func TestRegistryAttachResolve(t *testing.T) {
	r := NewRegistry()
	c := &fakeConn{}

	if replaced := r.Attach("alex", c); replaced != nil {
		t.Fatalf("Attach on empty registry replaced %v, want nil", replaced)
	}

	got, ok := r.Resolve("alex")
	if !ok || got != Conn(c) {
		t.Fatalf("Resolve(alex) = %v, %v; want the attached conn", got, ok)
	}

	identity, ok := r.ReverseResolve(c)
	if !ok || identity != "alex" {
		t.Fatalf("ReverseResolve = %q, %v; want alex, true", identity, ok)
	}
}

func TestRegistryReattachReplacesBinding(t *testing.T) {
	r := NewRegistry()
	first := &fakeConn{}
	second := &fakeConn{}

	r.Attach("alex", first)
	replaced := r.Attach("alex", second)
	if replaced != Conn(first) {
		t.Fatalf("Attach replaced %v, want the first conn", replaced)
	}

	if got, _ := r.Resolve("alex"); got != Conn(second) {
		t.Fatal("Resolve should return the newer conn")
	}
	if _, ok := r.ReverseResolve(first); ok {
		t.Fatal("supplanted conn should have no reverse binding")
	}
	if r.Len() != 1 {
		t.Fatalf("Len = %d, want 1", r.Len())
	}
}

func TestRegistryDetachIdempotent(t *testing.T) {
	r := NewRegistry()
	c := &fakeConn{}
	r.Attach("alex", c)

	identity, ok := r.Detach(c)
	if !ok || identity != "alex" {
		t.Fatalf("Detach = %q, %v; want alex, true", identity, ok)
	}
	if _, ok := r.Detach(c); ok {
		t.Fatal("second Detach of the same conn should report ok=false")
	}
	if r.Len() != 0 {
		t.Fatalf("Len = %d after detach, want 0", r.Len())
	}
}

func TestRegistryDetachSupersededConnKeepsNewBinding(t *testing.T) {
	r := NewRegistry()
	first := &fakeConn{}
	second := &fakeConn{}
	r.Attach("alex", first)
	r.Attach("alex", second)

	// The orphaned first conn eventually disconnects; that must not evict
	// the newer binding.
	if _, ok := r.Detach(first); ok {
		t.Fatal("detaching a superseded conn should be a no-op")
	}
	if got, ok := r.Resolve("alex"); !ok || got != Conn(second) {
		t.Fatal("newer binding must survive the stale detach")
	}
}

func TestRegistryListOnlineSorted(t *testing.T) {
	r := NewRegistry()
	r.Attach("sam", &fakeConn{})
	r.Attach("alex", &fakeConn{})

	if got, want := r.ListOnline(), []string{"alex", "sam"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("ListOnline = %v, want %v", got, want)
	}
}
