package store

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

type thing struct {
	ID    int64
	Order int
	Name  string
}

func (t thing) Key() int64 { return t.ID }

// byOrderDesc mirrors the display ordering: highest rank first, id breaking
// ties.
func byOrderDesc(a, b thing) bool {
	if a.Order != b.Order {
		return a.Order > b.Order
	}
	return a.ID > b.ID
}

func fetchWith(items ...thing) func(context.Context) ([]thing, error) {
	return func(context.Context) ([]thing, error) { return items, nil }
}

func ids(items []thing) []int64 {
	out := make([]int64, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func TestFetchAll_SortsAndDedupes(t *testing.T) {
	t.Parallel()

	c := New[thing](byOrderDesc)
	err := c.FetchAll(context.Background(), fetchWith(
		thing{ID: 1, Order: 5},
		thing{ID: 2, Order: 10},
		thing{ID: 1, Order: 99, Name: "dup"},
	))
	if err != nil {
		t.Fatalf("FetchAll returned error: %v", err)
	}

	got := ids(c.Items())
	want := []int64{2, 1}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Items ids = %v, want %v", got, want)
	}
	// First occurrence wins on duplicate ids.
	item, ok := c.Get(1)
	if !ok || item.Order != 5 {
		t.Fatalf("Get(1) = (%+v, %t), want first occurrence with Order 5", item, ok)
	}
	if !c.Fetched() {
		t.Fatalf("Fetched = false, want true")
	}
}

func TestFetchAll_FailureKeepsPreviousContents(t *testing.T) {
	t.Parallel()

	c := New[thing](byOrderDesc)
	if err := c.FetchAll(context.Background(), fetchWith(thing{ID: 1, Order: 5})); err != nil {
		t.Fatalf("FetchAll returned error: %v", err)
	}

	bad := func(context.Context) ([]thing, error) { return nil, errors.New("down") }
	if err := c.FetchAll(context.Background(), bad); err == nil {
		t.Fatalf("FetchAll returned nil error, want failure")
	}

	got := ids(c.Items())
	if !reflect.DeepEqual(got, []int64{1}) {
		t.Fatalf("Items ids = %v, want previous contents kept", got)
	}
}

func TestCreate_InsertsServerRepresentationInOrder(t *testing.T) {
	t.Parallel()

	c := New[thing](byOrderDesc)
	if err := c.FetchAll(context.Background(), fetchWith(
		thing{ID: 1, Order: 5},
		thing{ID: 2, Order: 10},
	)); err != nil {
		t.Fatalf("FetchAll returned error: %v", err)
	}

	created, err := c.Create(context.Background(), func(context.Context) (thing, error) {
		// The server is the authority; it may normalize what was submitted.
		return thing{ID: 3, Order: 7, Name: "server says"}, nil
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.Name != "server says" {
		t.Fatalf("Create returned %+v, want the server representation", created)
	}

	got := ids(c.Items())
	want := []int64{2, 3, 1}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Items ids = %v, want %v", got, want)
	}
}

func TestCreate_FailureInsertsNothing(t *testing.T) {
	t.Parallel()

	c := New[thing](byOrderDesc)
	_, err := c.Create(context.Background(), func(context.Context) (thing, error) {
		return thing{}, errors.New("rejected")
	})
	if err == nil {
		t.Fatalf("Create returned nil error, want failure")
	}
	if c.Len() != 0 {
		t.Fatalf("Len = %d, want 0", c.Len())
	}
}

func TestUpdate_ReplacesEntryWholesale(t *testing.T) {
	t.Parallel()

	c := New[thing](byOrderDesc)
	if err := c.FetchAll(context.Background(), fetchWith(
		thing{ID: 1, Order: 5, Name: "before"},
		thing{ID: 2, Order: 10},
	)); err != nil {
		t.Fatalf("FetchAll returned error: %v", err)
	}

	_, err := c.Update(context.Background(), 1, func(context.Context) (thing, error) {
		return thing{ID: 1, Order: 20, Name: "after"}, nil
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2 (no duplicate ids)", c.Len())
	}
	got := ids(c.Items())
	want := []int64{1, 2}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Items ids = %v, want %v (resorted after update)", got, want)
	}
	item, _ := c.Get(1)
	if item.Name != "after" || item.Order != 20 {
		t.Fatalf("Get(1) = %+v, want the server representation wholesale", item)
	}
}

func TestUpdate_FailureLeavesEntryUntouched(t *testing.T) {
	t.Parallel()

	original := thing{ID: 1, Order: 5, Name: "original"}
	c := New[thing](byOrderDesc)
	if err := c.FetchAll(context.Background(), fetchWith(original)); err != nil {
		t.Fatalf("FetchAll returned error: %v", err)
	}

	_, err := c.Update(context.Background(), 1, func(context.Context) (thing, error) {
		return thing{}, errors.New("rejected")
	})
	if err == nil {
		t.Fatalf("Update returned nil error, want failure")
	}

	item, ok := c.Get(1)
	if !ok || item != original {
		t.Fatalf("Get(1) = (%+v, %t), want the original entry untouched", item, ok)
	}
}

func TestRemove(t *testing.T) {
	t.Parallel()

	c := New[thing](byOrderDesc)
	if err := c.FetchAll(context.Background(), fetchWith(
		thing{ID: 1, Order: 5},
		thing{ID: 2, Order: 10},
	)); err != nil {
		t.Fatalf("FetchAll returned error: %v", err)
	}

	if err := c.Remove(context.Background(), 1, func(context.Context) error { return nil }); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if _, ok := c.Get(1); ok {
		t.Fatalf("Get(1) found entry after Remove")
	}

	err := c.Remove(context.Background(), 2, func(context.Context) error { return errors.New("rejected") })
	if err == nil {
		t.Fatalf("Remove returned nil error, want failure")
	}
	if _, ok := c.Get(2); !ok {
		t.Fatalf("Get(2) missing after failed Remove, want entry kept")
	}
}

func TestMutation_SecondConcurrentRequestIsBusy(t *testing.T) {
	t.Parallel()

	c := New[thing](byOrderDesc)
	inFlight := make(chan struct{})
	release := make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := c.Create(context.Background(), func(context.Context) (thing, error) {
			close(inFlight)
			<-release
			return thing{ID: 1}, nil
		})
		done <- err
	}()

	<-inFlight
	_, err := c.Update(context.Background(), 1, func(context.Context) (thing, error) {
		return thing{ID: 1}, nil
	})
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("Update error = %v, want ErrBusy", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("Len = %d, want 1", c.Len())
	}
}

func TestClose_InFlightReconciliationIsNoOp(t *testing.T) {
	t.Parallel()

	c := New[thing](byOrderDesc)
	inFlight := make(chan struct{})
	release := make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := c.Create(context.Background(), func(context.Context) (thing, error) {
			close(inFlight)
			<-release
			return thing{ID: 1}, nil
		})
		done <- err
	}()

	<-inFlight
	c.Close()
	close(release)

	if err := <-done; err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if c.Len() != 0 {
		t.Fatalf("Len = %d, want 0 after Close", c.Len())
	}

	if err := c.FetchAll(context.Background(), fetchWith(thing{ID: 2})); !errors.Is(err, ErrClosed) {
		t.Fatalf("FetchAll error = %v, want ErrClosed", err)
	}
}

func TestItems_ReturnsCopy(t *testing.T) {
	t.Parallel()

	c := New[thing](byOrderDesc)
	if err := c.FetchAll(context.Background(), fetchWith(thing{ID: 1, Name: "a"})); err != nil {
		t.Fatalf("FetchAll returned error: %v", err)
	}

	items := c.Items()
	items[0].Name = "mutated"
	fresh, _ := c.Get(1)
	if fresh.Name != "a" {
		t.Fatalf("Get(1).Name = %q, want internal state unaffected by caller mutation", fresh.Name)
	}
}
