package discovery

import (
	"fmt"
	"strconv"
	"strings"
)

// txtRecordMap is a map of TXT record key-value pairs.
type txtRecordMap map[string]string

// encodeTXT builds the TXT records advertised for a server.
func encodeTXT(service string, minKeySize int) txtRecordMap {
	txt := txtRecordMap{txtKeyService: service}
	if minKeySize > 0 {
		txt[txtKeyMinKeySize] = strconv.Itoa(minKeySize)
	}
	return txt
}

// decodeTXT parses TXT records back into the fields of a ServerInfo.
func decodeTXT(txt txtRecordMap) (service string, minKeySize int, err error) {
	service, ok := txt[txtKeyService]
	if !ok || service == "" {
		return "", 0, fmt.Errorf("%w: %s", ErrMissingRequired, txtKeyService)
	}

	if raw, ok := txt[txtKeyMinKeySize]; ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return "", 0, fmt.Errorf("%w: %s=%q", ErrInvalidTXTRecord, txtKeyMinKeySize, raw)
		}
		minKeySize = n
	}

	return service, minKeySize, nil
}

// txtRecordsToStrings converts a txtRecordMap to "key=value" strings, the
// format zeroconf expects.
func txtRecordsToStrings(txt txtRecordMap) []string {
	out := make([]string, 0, len(txt))
	for k, v := range txt {
		out = append(out, fmt.Sprintf("%s=%s", k, v))
	}
	return out
}

// stringsToTXTRecords parses "key=value" strings into a txtRecordMap.
func stringsToTXTRecords(strs []string) txtRecordMap {
	txt := make(txtRecordMap, len(strs))
	for _, s := range strs {
		k, v, ok := strings.Cut(s, "=")
		if ok {
			txt[k] = v
		}
	}
	return txt
}
