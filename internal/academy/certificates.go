package academy

import (
	"context"

	"github.com/ntquang22298/study-chain/internal/identity"
	"github.com/ntquang22298/study-chain/internal/policy"
	"github.com/ntquang22298/study-chain/internal/records"
)

// ListCertificates returns the certificates issued to the calling student.
// Other roles are denied rather than given an empty list.
func (s *Service) ListCertificates(ctx context.Context, id identity.Identity) ([]records.CertificateRecord, error) {
	if err := authorize(id, policy.ListCertificates); err != nil {
		return nil, err
	}
	ctx, sess, err := s.open(ctx, id, MsgGatewayUnavailable)
	if err != nil {
		return nil, err
	}
	defer s.release(sess)

	certs, err := query[records.List[records.CertificateRecord]](ctx, sess, MsgQueryFailed, records.FnGetMyCerts, id.Username)
	if err != nil {
		return nil, err
	}
	return nonNilList(certs), nil
}
