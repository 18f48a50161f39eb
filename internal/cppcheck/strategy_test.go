package cppcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"", ModeAuto, false},
		{"auto", ModeAuto, false},
		{"xml", ModeXML, false},
		{"text", ModeText, false},
		{"XML", ModeXML, false},
		{"bogus", ModeAuto, true},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseMode(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestStrategyFor(t *testing.T) {
	assert.Equal(t, "xml", StrategyFor(ModeAuto).Name())
	assert.Equal(t, "xml", StrategyFor(ModeXML).Name())
	assert.Equal(t, "text", StrategyFor(ModeText).Name())
}

func TestXMLStrategy_Args(t *testing.T) {
	inv := Invocation{ExtraArgs: "--enable=warning", Standard: "c++17"}
	got := XMLStrategy{}.Args(inv, "src/a.cpp")
	assert.Equal(t, []string{"--xml", "--enable=warning", "--std=c++17", "src/a.cpp"}, got)
}

func TestTextStrategy_Args(t *testing.T) {
	got := TextStrategy{}.Args(Invocation{Standard: NoStandard}, "a.cpp")
	require.Len(t, got, 2)
	assert.Equal(t, textTemplate, got[0])
	assert.Equal(t, "a.cpp", got[1])
}

func TestXMLStrategy_ParseReadsStderr(t *testing.T) {
	res := Result{
		Stdout: "Checking a.cpp ...",
		Stderr: `<results version="2"><errors><error id="zerodiv" severity="error" msg="Division by zero"><location file="a.cpp" line="2"/></error></errors></results>`,
	}
	fs, err := XMLStrategy{}.Parse(res)
	require.NoError(t, err)
	require.Len(t, fs, 1)
	assert.Equal(t, "zerodiv", fs[0].ID)
}

func TestTextStrategy_ParseCombinesStreams(t *testing.T) {
	res := Result{
		Stderr: "a.cpp:1:1: error: first",
		Stdout: "b.cpp:2:2: warning: second",
	}
	fs, err := TextStrategy{}.Parse(res)
	require.NoError(t, err)
	require.Len(t, fs, 2)
	// stderr findings come before stdout findings.
	assert.Equal(t, "first", fs[0].Message)
	assert.Equal(t, "second", fs[1].Message)
}
