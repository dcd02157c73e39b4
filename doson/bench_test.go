package doson

import (
	"strconv"
	"strings"
	"testing"
)

// ============================================================
// Parse / Emit Benchmarks
// ============================================================
//
// Run with:
//   go test -bench=. -benchmem ./doson/

func benchDocument(n int) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(`{"id":`)
		sb.WriteString(strconv.Itoa(i))
		sb.WriteString(`,"name":"item \"`)
		sb.WriteString(strconv.Itoa(i))
		sb.WriteString(`\"","pair":(true,`)
		sb.WriteString(strconv.FormatFloat(float64(i)*0.5, 'f', -1, 64))
		sb.WriteString(`),"blob":binary!(SGVsbG8=)}`)
	}
	sb.WriteByte(']')
	return sb.String()
}

func BenchmarkParse_Number(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = Parse("-12345.678e-3")
	}
}

func BenchmarkParse_Document(b *testing.B) {
	doc := benchDocument(100)
	b.SetBytes(int64(len(doc)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Parse(doc)
	}
}

func BenchmarkParse_Envelope(b *testing.B) {
	doc := Envelope(benchDocument(100))
	b.SetBytes(int64(len(doc)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Parse(doc)
	}
}

func BenchmarkEmit_Document(b *testing.B) {
	v := Parse(benchDocument(100))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = v.String()
	}
}

func BenchmarkWeight_Document(b *testing.B) {
	v := Parse(benchDocument(100))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = v.Weight()
	}
}

func BenchmarkToJSON_Document(b *testing.B) {
	v := Parse(benchDocument(100))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ToJSON(v); err != nil {
			b.Fatal(err)
		}
	}
}

// TestBenchDocumentParses keeps the benchmark input honest.
func TestBenchDocumentParses(t *testing.T) {
	v, err := ParseStrict(benchDocument(3))
	if err != nil {
		t.Fatalf("ParseStrict failed: %v", err)
	}
	if v.Len() != 3 {
		t.Errorf("Len() = %d, want 3", v.Len())
	}
	if got := v.Weight(); got != 0+1+2+0+0.5+1 {
		t.Errorf("Weight() = %v, want 4.5", got)
	}
}
