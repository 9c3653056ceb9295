// Package signatory models the signatories attached to a certificate.
//
// A Collection holds the signatories of one certificate in display order and
// syncs them against a remote Resource located at
//
//	{certificate_base_url}/{certificate_id}/signatories
//
// Both values are required; there is no default location.
//
// Signatory values are immutable snapshots. Each carries a stable Key
// assigned when it enters a collection, used for identity. Positions are
// derived from membership and only used for display.
//
// # Usage
//
//	coll, err := signatory.NewCollection(signatory.Config{
//	    CertificateBaseURL: "https://studio.example.com/certificates",
//	    CertificateID:      "42",
//	}, remote.Opener(http.DefaultClient))
//	if err != nil {
//	    return err
//	}
//	if err := coll.Fetch(ctx); err != nil {
//	    return err
//	}
package signatory
