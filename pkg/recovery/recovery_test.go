package recovery

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/asn1"
	"testing"

	"github.com/tang-go/tang/pkg/advertisement"
	"github.com/tang-go/tang/pkg/ecconv"
	"github.com/tang-go/tang/pkg/tangkey"
	"github.com/tang-go/tang/pkg/wire"
)

func buildReply(t *testing.T, recCurve elliptic.Curve) (*wire.Reply, *ecdsa.PrivateKey) {
	t.Helper()
	sigKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate sig key: %v", err)
	}
	recKey, err := ecdsa.GenerateKey(recCurve, rand.Reader)
	if err != nil {
		t.Fatalf("generate rec key: %v", err)
	}

	builder, err := advertisement.NewBuilder([]advertisement.KeyRecord{
		{Private: sigKey, Use: tangkey.UseSig, Advertise: true},
		{Private: recKey, Use: tangkey.UseRec, Advertise: true},
	})
	if err != nil {
		t.Fatalf("NewBuilder() error = %v", err)
	}

	req := &wire.AdvRequest{
		Kind:       wire.AdvRequestGrps,
		Groups:     []asn1.ObjectIdentifier{tangkey.OIDP256, tangkey.OIDP384, tangkey.OIDP521},
		Algorithms: []asn1.ObjectIdentifier{tangkey.SigAlgECDSASHA256.OID()},
	}
	reply, err := builder.Build(req)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return reply, recKey
}

func TestBuildSelectsP521ForLargeMinKeySize(t *testing.T) {
	reply, recKey := buildReply(t, elliptic.P521())

	result, err := Build(reply, 32)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	defer result.Secret.Release()

	if !result.Request.Key.Equal(mustKey(t, recKey)) {
		t.Fatalf("recovery request echoes wrong key")
	}

	x, y, err := ecconv.OctetToPoint(elliptic.P521(), result.Request.XPoint)
	if err != nil {
		t.Fatalf("ephemeral point did not round-trip: %v", err)
	}
	_, _ = x, y
}

func TestBuildRejectsUndersizedKey(t *testing.T) {
	reply, _ := buildReply(t, elliptic.P256())

	_, err := Build(reply, 32) // requires degree >= 512, P-256 has degree 256
	if err == nil {
		t.Fatal("Build() succeeded with only a P-256 REC key and min=32")
	}
}

func TestSelectionMonotonicity(t *testing.T) {
	// A body offering both a P-256 and a P-521 REC key, in that order:
	// increasing minKeySize should never make the builder jump back to
	// a weaker curve once it has moved to a stronger one.
	sigKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	weakRec, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	strongRec, err := ecdsa.GenerateKey(elliptic.P521(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}

	builder, err := advertisement.NewBuilder([]advertisement.KeyRecord{
		{Private: sigKey, Use: tangkey.UseSig, Advertise: true},
		{Private: weakRec, Use: tangkey.UseRec, Advertise: true},
		{Private: strongRec, Use: tangkey.UseRec, Advertise: true},
	})
	if err != nil {
		t.Fatal(err)
	}
	req := &wire.AdvRequest{
		Kind:       wire.AdvRequestGrps,
		Groups:     []asn1.ObjectIdentifier{tangkey.OIDP256, tangkey.OIDP521},
		Algorithms: []asn1.ObjectIdentifier{tangkey.SigAlgECDSASHA256.OID()},
	}
	reply, err := builder.Build(req)
	if err != nil {
		t.Fatal(err)
	}

	var lastDegree int
	for _, m := range []int{1, 16, 32, 128, 260} {
		result, err := Build(reply, m)
		if err != nil {
			if m >= 128 {
				continue // selection failing at higher m is allowed
			}
			t.Fatalf("Build(%d) error = %v", m, err)
		}
		curve, _ := tangkey.CurveByOID(result.Request.Key.Curve)
		degree := tangkey.Degree(curve)
		if degree < lastDegree {
			t.Fatalf("selected degree decreased from %d to %d as m increased to %d", lastDegree, degree, m)
		}
		lastDegree = degree
		result.Secret.Release()
	}
}

func TestSharedSecretAgreement(t *testing.T) {
	recKey, err := ecdsa.GenerateKey(elliptic.P521(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	sigKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	builder, err := advertisement.NewBuilder([]advertisement.KeyRecord{
		{Private: sigKey, Use: tangkey.UseSig, Advertise: true},
		{Private: recKey, Use: tangkey.UseRec, Advertise: true},
	})
	if err != nil {
		t.Fatal(err)
	}
	req := &wire.AdvRequest{
		Kind:       wire.AdvRequestGrps,
		Groups:     []asn1.ObjectIdentifier{tangkey.OIDP256, tangkey.OIDP521},
		Algorithms: []asn1.ObjectIdentifier{tangkey.SigAlgECDSASHA256.OID()},
	}
	reply, err := builder.Build(req)
	if err != nil {
		t.Fatal(err)
	}

	result, err := Build(reply, 32)
	if err != nil {
		t.Fatal(err)
	}
	defer result.Secret.Release()

	// Server side: recompute [r]·L directly (what FinalizeFromReply
	// would receive over the wire as Y).
	lx, ly, err := ecconv.OctetToPoint(elliptic.P521(), result.Request.XPoint)
	if err != nil {
		t.Fatal(err)
	}
	yx, yy := elliptic.P521().ScalarMult(lx, ly, recKey.D.Bytes())
	serverSecret, err := FinalizeFromReply(elliptic.P521(), &wire.RecoveryReply{
		YPoint: ecconv.PointToOctet(elliptic.P521(), yx, yy),
	})
	if err != nil {
		t.Fatal(err)
	}
	defer serverSecret.Release()

	if string(result.Secret.Bytes()) != string(serverSecret.Bytes()) {
		t.Fatal("client-derived secret and server-recomputed secret disagree")
	}
}

func TestSkeyZeroizedOnRelease(t *testing.T) {
	reply, _ := buildReply(t, elliptic.P521())
	result, err := Build(reply, 32)
	if err != nil {
		t.Fatal(err)
	}
	b := result.Secret.Bytes()
	cp := append([]byte(nil), b...)
	allZero := true
	for _, v := range cp {
		if v != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		t.Fatal("secret was already zero before release")
	}

	result.Secret.Release()
	for _, v := range b {
		if v != 0 {
			t.Fatal("secret bytes were not zeroed on release")
		}
	}
}

func mustKey(t *testing.T, priv *ecdsa.PrivateKey) tangkey.Key {
	t.Helper()
	k, err := ecconv.FromPublicKey(&priv.PublicKey, tangkey.UseRec)
	if err != nil {
		t.Fatal(err)
	}
	return k
}
