package main

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"encoding/hex"
	"fmt"
	"math/big"
	"os"

	"github.com/tang-go/tang/pkg/advertisement"
	"github.com/tang-go/tang/pkg/tangkey"
	"gopkg.in/yaml.v3"
)

// keyEntry is one row of tangd's YAML key database file, mirroring the
// curve/use/advertise shape of a real Tang key-db directory.
type keyEntry struct {
	Curve      string `yaml:"curve"`
	Use        string `yaml:"use"`
	Advertise  bool   `yaml:"advertise"`
	PrivateHex string `yaml:"private_hex"`
}

type keyFile struct {
	Keys []keyEntry `yaml:"keys"`
}

var curveByName = map[string]elliptic.Curve{
	"P-224": elliptic.P224(),
	"P-256": elliptic.P256(),
	"P-384": elliptic.P384(),
	"P-521": elliptic.P521(),
}

var useByName = map[string]tangkey.Use{
	"SIG": tangkey.UseSig,
	"REC": tangkey.UseRec,
}

// loadKeyDB reads a YAML key database file and returns the advertisement
// key records it describes.
func loadKeyDB(path string) ([]advertisement.KeyRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tangd: reading key database %s: %w", path, err)
	}

	var kf keyFile
	if err := yaml.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("tangd: parsing key database %s: %w", path, err)
	}

	records := make([]advertisement.KeyRecord, 0, len(kf.Keys))
	for i, entry := range kf.Keys {
		curve, ok := curveByName[entry.Curve]
		if !ok {
			return nil, fmt.Errorf("tangd: key %d: unknown curve %q", i, entry.Curve)
		}
		use, ok := useByName[entry.Use]
		if !ok {
			return nil, fmt.Errorf("tangd: key %d: unknown use %q", i, entry.Use)
		}

		priv, err := parsePrivateKey(curve, entry.PrivateHex)
		if err != nil {
			return nil, fmt.Errorf("tangd: key %d: %w", i, err)
		}

		records = append(records, advertisement.KeyRecord{
			Private:   priv,
			Use:       use,
			Advertise: entry.Advertise,
		})
	}
	return records, nil
}

func parsePrivateKey(curve elliptic.Curve, hexScalar string) (*ecdsa.PrivateKey, error) {
	d, err := hex.DecodeString(hexScalar)
	if err != nil {
		return nil, fmt.Errorf("decoding private_hex: %w", err)
	}

	priv := &ecdsa.PrivateKey{D: new(big.Int).SetBytes(d)}
	priv.PublicKey.Curve = curve
	priv.PublicKey.X, priv.PublicKey.Y = curve.ScalarBaseMult(d)
	return priv, nil
}
