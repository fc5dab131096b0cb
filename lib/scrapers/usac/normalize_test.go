package usac

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizePlainHTML(t *testing.T) {
	body, err := normalizeBody("u", "<html><body>plain</body></html>")
	require.NoError(t, err)
	require.Equal(t, "<html><body>plain</body></html>", body)
}

func TestNormalizeMessageEnvelope(t *testing.T) {
	body, err := normalizeBody("u", `{"message": "<div>fragment</div>"}`)
	require.NoError(t, err)
	require.Equal(t, "<div>fragment</div>", body)
}

func TestNormalizeLegacyEnvelope(t *testing.T) {
	body, err := normalizeBody("u", `{"d": "<div>legacy</div>"}`)
	require.NoError(t, err)
	require.Equal(t, "<div>legacy</div>", body)
}

func TestNormalizeHTMLPretendingToBeJSON(t *testing.T) {
	_, err := normalizeBody("u", `{<html><body>error page</body></html>`)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Contains(t, parseErr.Reason, "expected JSON, got HTML")
}

func TestNormalizeNonStringEnvelopePassesThrough(t *testing.T) {
	body, err := normalizeBody("u", `{"arr": {"races": []}}`)
	require.NoError(t, err)
	require.JSONEq(t, `{"arr": {"races": []}}`, body)
}

func TestBlockedMarkers(t *testing.T) {
	require.True(t, isBlocked("<html>Invalid user access, malicious activity detected</html>"))
	require.False(t, isBlocked("<html>normal page</html>"))

	// either phrase alone is legitimate page content
	require.False(t, isBlocked("Invalid user access detected"))
	require.False(t, isBlocked("Officials discussed malicious race interference"))
}

func TestUnauthorizedMarker(t *testing.T) {
	require.True(t, isUnauthorized("<div>Unauthorized access!</div>"))
	require.False(t, isUnauthorized("<div>results</div>"))
}
