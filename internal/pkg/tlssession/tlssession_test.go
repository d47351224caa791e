package tlssession

import (
	"crypto/tls"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVersionStringMapsKnownVersions(t *testing.T) {
	require.Equal(t, "TLSv1.3", versionString(tls.VersionTLS13))
	require.Equal(t, "TLSv1.2", versionString(tls.VersionTLS12))
	require.Equal(t, "unknown", versionString(0xffff))
}
