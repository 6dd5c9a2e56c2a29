package ai

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Draft
	}{
		{
			name: "plain object",
			raw:  `{"titleOptions":["A","B"],"whyItMatters":"w","myThoughts":"m"}`,
			want: Draft{TitleOptions: []string{"A", "B"}, WhyItMatters: "w", MyThoughts: "m"},
		},
		{
			name: "markdown fence",
			raw:  "```json\n{\"titleOptions\":[\"A\"],\"whyItMatters\":\"w\",\"myThoughts\":\"m\"}\n```",
			want: Draft{TitleOptions: []string{"A"}, WhyItMatters: "w", MyThoughts: "m"},
		},
		{
			name: "bare fence",
			raw:  "```\n{\"whyItMatters\":\"w\"}\n```  ",
			want: Draft{WhyItMatters: "w"},
		},
		{
			name: "preamble and trailing text",
			raw:  `Sure, here it is: {"whyItMatters":"w","myThoughts":"m"} Let me know if you need more.`,
			want: Draft{WhyItMatters: "w", MyThoughts: "m"},
		},
		{
			name: "braces and escaped quotes inside strings",
			raw:  `Result: {"whyItMatters":"a } tricky \" {value","myThoughts":"ok"} {"ignored":true}`,
			want: Draft{WhyItMatters: `a } tricky " {value`, MyThoughts: "ok"},
		},
		{
			name: "nested objects",
			raw:  `x {"titleOptions":["T"],"meta":{"a":{"b":1}},"myThoughts":"m"} y`,
			want: Draft{TitleOptions: []string{"T"}, MyThoughts: "m"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Draft
			require.NoError(t, ParseJSON(tt.raw, &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseJSON_Errors(t *testing.T) {
	var d Draft
	err := ParseJSON("no json here at all", &d)
	assert.ErrorIs(t, err, ErrNoJSONObject)

	err = ParseJSON(`prefix {"whyItMatters": "never closed`, &d)
	assert.ErrorIs(t, err, ErrNoValidJSON)

	err = ParseJSON(`prefix {"whyItMatters": oops}`, &d)
	assert.ErrorIs(t, err, ErrNoValidJSON)
}

func TestParseJSON_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("object survives surrounding prose", prop.ForAll(
		func(prefix, suffix, why, thoughts string) bool {
			body, err := json.Marshal(Draft{TitleOptions: []string{why}, WhyItMatters: why, MyThoughts: thoughts})
			if err != nil {
				return false
			}
			var got Draft
			if err := ParseJSON(prefix+" "+string(body)+" "+suffix, &got); err != nil {
				return false
			}
			return got.WhyItMatters == why && got.MyThoughts == thoughts && len(got.TitleOptions) == 1
		},
		gen.AlphaString(),
		gen.AlphaString(),
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

type card struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func TestParseArray(t *testing.T) {
	items, err := ParseArray[card](`Here you go: [{"id":"a","title":"One"},{"id":"b","title":"Two"}] done`)
	require.NoError(t, err)
	assert.Equal(t, []card{{"a", "One"}, {"b", "Two"}}, items)

	// typographic quotes around keys are normalized
	items, err = ParseArray[card]("[{\u201cid\u201d:\"a\",\"title\":\"One\"}]")
	require.NoError(t, err)
	assert.Equal(t, []card{{"a", "One"}}, items)

	// a broken element does not take the others down
	items, err = ParseArray[card](`[{"id":"a","title":"One"}, {"id":"b" "title":"Broken"}, {"id":"c","title":"Three"}]`)
	require.NoError(t, err)
	assert.Equal(t, []card{{"a", "One"}, {"c", "Three"}}, items)

	_, err = ParseArray[card]("nothing")
	assert.ErrorIs(t, err, ErrNoJSONArray)

	_, err = ParseArray[card]("[not json]")
	assert.ErrorIs(t, err, ErrNoValidJSON)
}

func TestBalancedObject(t *testing.T) {
	s, err := balancedObject(`a {"x":"}"} b`)
	require.NoError(t, err)
	assert.Equal(t, `{"x":"}"}`, s)

	_, err = balancedObject(strings.Repeat("{", 3))
	assert.ErrorIs(t, err, ErrNoValidJSON)
}
