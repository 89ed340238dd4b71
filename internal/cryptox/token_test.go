package cryptox

import "testing"

func TestIssueToken(t *testing.T) {
	t.Parallel()

	token, digest, err := IssueToken()
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}
	if token == "" || digest == "" {
		t.Fatalf("empty token or digest")
	}
	if token == digest {
		t.Fatalf("digest equals token: nothing one-way about that")
	}
	if got := DigestToken(token); got != digest {
		t.Fatalf("DigestToken mismatch: got %q want %q", got, digest)
	}
}

func TestIssueToken_Unique(t *testing.T) {
	t.Parallel()

	t1, _, err := IssueToken()
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}
	t2, _, err := IssueToken()
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}
	if t1 == t2 {
		t.Fatalf("two issued tokens are identical")
	}
}
