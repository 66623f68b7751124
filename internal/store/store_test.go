package store

import (
	"fmt"
	"testing"
)

func TestChunk(t *testing.T) {
	ids := make([]string, 65)
	for i := range ids {
		ids[i] = fmt.Sprintf("s%d", i)
	}

	chunks := Chunk(ids)
	if len(chunks) != 3 {
		t.Fatalf("порций %d, ожидали 3", len(chunks))
	}
	if len(chunks[0]) != 30 || len(chunks[1]) != 30 || len(chunks[2]) != 5 {
		t.Fatalf("размеры порций: %d/%d/%d", len(chunks[0]), len(chunks[1]), len(chunks[2]))
	}

	if Chunk(nil) != nil {
		t.Fatal("пустой список — nil")
	}
	if got := Chunk([]string{"a"}); len(got) != 1 || len(got[0]) != 1 {
		t.Fatalf("одиночный id: %v", got)
	}
}
