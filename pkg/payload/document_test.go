package payload

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromStruct(t *testing.T) {
	scope := Scope{
		Assets: []Asset{{AssetID: "host-1", AssetName: "web-1", AssetType: AssetTypeCritical, Services: []string{}, Tags: []string{}}},
		Summary: ScopeSummary{
			TotalAssets:    1,
			CriticalAssets: 1,
			ScanTimestamp:  "2026-02-11T10:00:00+00:00",
		},
		Sources: ScopeSources{Runtime: SourceOK, Cloud: SourceUnavailable, Kubernetes: SourceError},
		Notes:   []string{},
	}

	doc, err := FromStruct(scope)
	require.NoError(t, err)

	assets := doc.List("assets")
	require.Len(t, assets, 1)
	assert.Equal(t, "host-1", AsDocument(assets[0]).String("asset_id"))
	assert.Equal(t, 1, doc.Map("summary").IntOr("total_assets", -1))
	assert.Equal(t, "error", doc.Map("sources").String("kubernetes"))
	assert.NotContains(t, doc, "coverage")

	var back Scope
	require.NoError(t, doc.Decode(&back))
	assert.Equal(t, scope, back)
}

func TestFromStructNil(t *testing.T) {
	doc, err := FromStruct(nil)
	require.NoError(t, err)
	assert.Empty(t, doc)
}

func TestFromStructRejectsNonObject(t *testing.T) {
	_, err := FromStruct([]int{1, 2})
	assert.Error(t, err)
}

func TestAccessorsTolerateWrongShapes(t *testing.T) {
	doc := Document{
		"str":   "x",
		"num":   float64(3),
		"frac":  1.5,
		"list":  []any{1},
		"obj":   map[string]any{"k": "v"},
		"null":  nil,
		"bool":  true,
		"jsnum": json.Number("42"),
	}

	assert.Nil(t, doc.Map("str"))
	assert.Nil(t, doc.Map("missing"))
	assert.Equal(t, "v", doc.Map("obj").String("k"))
	assert.Nil(t, doc.List("obj"))
	assert.Len(t, doc.List("list"), 1)

	assert.Equal(t, "", doc.String("null"))
	assert.Equal(t, "", doc.String("obj"))
	assert.Equal(t, "3", doc.String("num"))
	assert.Equal(t, "1.5", doc.String("frac"))
	assert.Equal(t, "true", doc.String("bool"))

	n, ok := doc.Int("num")
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	_, ok = doc.Int("frac")
	assert.False(t, ok)
	_, ok = doc.Int("str")
	assert.False(t, ok)
	_, ok = doc.Int("bool")
	assert.False(t, ok)

	assert.Equal(t, 42, doc.IntOr("jsnum", 0))
	assert.Equal(t, 7, doc.IntOr("missing", 7))
}

func TestIntegerRejectsNonFinite(t *testing.T) {
	_, ok := Integer(math.Inf(1))
	assert.False(t, ok)
	_, ok = Integer(math.NaN())
	assert.False(t, ok)
}

func TestFindingSummaryAdd(t *testing.T) {
	var s FindingSummary
	for _, sev := range []string{SeverityCritical, SeverityHigh, SeverityHigh, SeverityMedium, SeverityLow, "unknown"} {
		s.Add(sev)
	}
	assert.Equal(t, FindingSummary{Critical: 1, High: 2, Medium: 1, Low: 2, Total: 6}, s)
}

func TestKind(t *testing.T) {
	for _, k := range Kinds() {
		assert.True(t, k.IsKnown(), k.String())
	}
	assert.False(t, Kind("metrics").IsKnown())
	assert.Equal(t, "cycle_summary", KindCycleSummary.String())
}
