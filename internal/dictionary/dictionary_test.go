package dictionary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestImportFile_Txt(t *testing.T) {
	path := writeTemp(t, "words.txt", "# a comment\n// another comment\n\nhack -> perform authorised security testing\nrevenge\nexploit => assess vulnerability exposure\n")

	dict, result, err := ImportFile(path)
	require.NoError(t, err)
	require.Equal(t, "perform authorised security testing", dict.TechnicalRewrites["hack"])
	require.Equal(t, "assess vulnerability exposure", dict.TechnicalRewrites["exploit"])
	require.Contains(t, dict.EmotionalWords, "revenge")
	require.Equal(t, 1, result.Emotional)
	require.Equal(t, 2, result.Technical)
	require.NotEmpty(t, result.SHA256)
}

func TestImportFile_Dic(t *testing.T) {
	path := writeTemp(t, "words.dic", "; comment\n# also comment\nbreach=simulate penetration testing scenario\n\nbackdoor=verify anomaly detection capability\n")

	dict, _, err := ImportFile(path)
	require.NoError(t, err)
	require.Equal(t, "simulate penetration testing scenario", dict.TechnicalRewrites["breach"])
	require.Equal(t, "verify anomaly detection capability", dict.TechnicalRewrites["backdoor"])
}

func TestImportFile_JSON(t *testing.T) {
	path := writeTemp(t, "words.json", `{"emotional_words":["hate"],"technical_rewrites":{"Steal":"analyze unauthorized access paths"},"compliance_templates":["authorised red team exercise"]}`)

	dict, _, err := ImportFile(path)
	require.NoError(t, err)
	require.Contains(t, dict.EmotionalWords, "hate")
	require.Equal(t, "analyze unauthorized access paths", dict.TechnicalRewrites["steal"])
	require.Equal(t, []string{"authorised red team exercise"}, dict.ComplianceTemplates)
}

func TestImportFile_JSONRejectsUnknownKeys(t *testing.T) {
	path := writeTemp(t, "bad.json", `{"emotional_words":["hate"],"unknown_field":"oops"}`)

	_, _, err := ImportFile(path)
	require.Error(t, err)
}

func TestImportFile_CSVTyped(t *testing.T) {
	path := writeTemp(t, "words.csv", "type,content,replacement\nemotional,destroy,\ntechnical,crack,verify encryption strength\ncompliance,responsible security research,\n")

	dict, _, err := ImportFile(path)
	require.NoError(t, err)
	require.Contains(t, dict.EmotionalWords, "destroy")
	require.Equal(t, "verify encryption strength", dict.TechnicalRewrites["crack"])
	require.Contains(t, dict.ComplianceTemplates, "responsible security research")
}

func TestImportFile_CSVSimpleTwoColumn(t *testing.T) {
	path := writeTemp(t, "words.csv", "dangerous,safe\nhack,perform security stress testing\nexploit,assess vulnerability exposure\n")

	dict, _, err := ImportFile(path)
	require.NoError(t, err)
	require.Equal(t, "perform security stress testing", dict.TechnicalRewrites["hack"])
	require.Equal(t, "assess vulnerability exposure", dict.TechnicalRewrites["exploit"])
}

func TestImportFiles_IsolatesFailures(t *testing.T) {
	good := writeTemp(t, "good.txt", "revenge\n")
	bad := writeTemp(t, "bad.json", `{"emotional_words": "not-an-array"}`)

	dict, results, err := ImportFiles([]string{good, bad})
	require.Error(t, err)
	require.Len(t, results, 1)
	require.Contains(t, dict.EmotionalWords, "revenge")

	var importErr *ImportError
	require.ErrorAs(t, err, &importErr)
	require.Len(t, importErr.Failures, 1)
}

func TestImportFile_RejectsOversizedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "huge.txt")
	data := make([]byte, MaxFileBytes+1)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, _, err := ImportFile(path)
	require.Error(t, err)
}

func TestRoundTrip_ParseEmitIsIdentityModuloOrder(t *testing.T) {
	original := &Dictionary{
		EmotionalWords:      []string{"hate", "revenge"},
		TechnicalRewrites:   map[string]string{"hack": "perform authorised security testing"},
		ComplianceTemplates: []string{"authorised red team exercise", "bug bounty program"},
	}

	data, err := Emit(original)
	require.NoError(t, err)

	roundTripped, err := Parse(data)
	require.NoError(t, err)

	require.ElementsMatch(t, original.EmotionalWords, roundTripped.EmotionalWords)
	require.Equal(t, original.TechnicalRewrites, roundTripped.TechnicalRewrites)
	require.Equal(t, original.ComplianceTemplates, roundTripped.ComplianceTemplates)
}

func TestMerge_DedupesAcrossFiles(t *testing.T) {
	dst := New()
	dst.EmotionalWords = []string{"hate"}
	dst.TechnicalRewrites["hack"] = "old rewrite"

	src := New()
	src.EmotionalWords = []string{"hate", "revenge"}
	src.TechnicalRewrites["hack"] = "new rewrite"
	src.ComplianceTemplates = []string{"bug bounty program"}

	Merge(dst, src)

	require.Equal(t, []string{"hate", "revenge"}, dst.EmotionalWords)
	require.Equal(t, "new rewrite", dst.TechnicalRewrites["hack"])
	require.Equal(t, []string{"bug bounty program"}, dst.ComplianceTemplates)
}

func TestImportFile_UnsupportedExtension(t *testing.T) {
	path := writeTemp(t, "words.yaml", "emotional_words: [hate]\n")
	_, _, err := ImportFile(path)
	require.Error(t, err)
}
