package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeTXTRoundTrip(t *testing.T) {
	txt := encodeTXT("5697", 2048)

	service, minKeySize, err := decodeTXT(txt)
	require.NoError(t, err)
	assert.Equal(t, "5697", service)
	assert.Equal(t, 2048, minKeySize)
}

func TestEncodeTXTOmitsZeroMinKeySize(t *testing.T) {
	txt := encodeTXT("5697", 0)
	_, ok := txt[txtKeyMinKeySize]
	assert.False(t, ok, "encodeTXT() set %s for a zero min key size", txtKeyMinKeySize)
}

func TestDecodeTXTRejectsMissingService(t *testing.T) {
	_, _, err := decodeTXT(txtRecordMap{txtKeyMinKeySize: "2048"})
	require.Error(t, err)
}

func TestDecodeTXTRejectsUnparsableMinKeySize(t *testing.T) {
	_, _, err := decodeTXT(txtRecordMap{txtKeyService: "5697", txtKeyMinKeySize: "not-a-number"})
	require.Error(t, err)
}

func TestTXTRecordsToStringsRoundTrip(t *testing.T) {
	want := txtRecordMap{txtKeyService: "5697", txtKeyMinKeySize: "2048"}
	got := stringsToTXTRecords(txtRecordsToStrings(want))
	assert.Equal(t, want, got)
}

func TestServerInfoValidate(t *testing.T) {
	cases := []struct {
		name    string
		info    ServerInfo
		wantErr bool
	}{
		{"valid with host", ServerInfo{Host: "tang.example.org", Service: "5697"}, false},
		{"valid with addresses", ServerInfo{Addresses: []string{"192.168.1.5"}, Service: "5697"}, false},
		{"missing address", ServerInfo{Service: "5697"}, true},
		{"missing service", ServerInfo{Host: "tang.example.org"}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.info.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
