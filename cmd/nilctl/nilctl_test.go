package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestRosterValidate_ReportsRowErrors(t *testing.T) {
	path := writeFile(t, "roster.csv", strings.Join([]string{
		"first_name,last_name,email,sport,school,state,graduation_year",
		"Ana,Diaz,ana@example.com,soccer,North High,CA,2027",
		"Ben,Cole,not-an-email,football,South High,TX,2027",
	}, "\n"))

	out, err := runCmd(t, "roster", "validate", path)
	require.Error(t, err)
	require.Contains(t, out, "rows: 2  valid: 1  invalid: 1")
	require.Contains(t, out, "line 3: error: email")
}

func TestRosterValidate_JSON(t *testing.T) {
	path := writeFile(t, "roster.csv", "first_name,last_name,email,sport,school,state,graduation_year\nAna,Diaz,ana@example.com,soccer,North High,CA,2027\n")

	out, err := runCmd(t, "roster", "validate", "--json", path)
	require.NoError(t, err)

	var report rosterReport
	require.NoError(t, sonic.Unmarshal([]byte(out), &report))
	require.Equal(t, 1, report.ValidRows)
	require.Len(t, report.Rows, 1)
}

func TestFMV(t *testing.T) {
	out, err := runCmd(t, "fmv", "--sport", "Football", "--followers", "10000", "--engagement", "0.05")
	require.NoError(t, err)
	require.Contains(t, out, "sport=football")
	require.Contains(t, out, "fmv=$")

	_, err = runCmd(t, "fmv", "--sport", "football", "--engagement", "2")
	require.Error(t, err)
}

func TestMatch_ScoresAthleteAgainstCampaign(t *testing.T) {
	athletePath := writeFile(t, "athlete.json", `{"sport":"football","state":"TX","instagram_followers":20000,"engagement_rate":0.06,"open_to_deals":true}`)
	campaignPath := writeFile(t, "campaign.json", `{"sports":["football"],"target_states":["TX"],"min_followers":5000,"budget_min_cents":5000,"budget_max_cents":500000}`)

	out, err := runCmd(t, "match", "--athlete", athletePath, "--campaign", campaignPath)
	require.NoError(t, err)

	var report matchReport
	require.NoError(t, sonic.Unmarshal([]byte(out), &report))
	require.Greater(t, report.Score, 50)
	require.LessOrEqual(t, report.Score, 100)
}
