package ids

import (
	"strings"
	"testing"
)

func TestCompanyID(t *testing.T) {
	for i := 0; i < 50; i++ {
		id, err := CompanyID()
		if err != nil {
			t.Fatal(err)
		}
		if len(id) != CompanyIDLength {
			t.Fatalf("len(%q) = %d", id, len(id))
		}
		if strings.Trim(id, letters) != "" {
			t.Fatalf("%q has non letter characters", id)
		}
	}
}

func TestSKUID(t *testing.T) {
	id, err := SKUID("ABCDEF")
	if err != nil {
		t.Fatal(err)
	}
	if len(id) != SKUIDLength {
		t.Fatalf("len(%q) = %d, want %d", id, len(id), SKUIDLength)
	}
	if !strings.HasPrefix(id, "ABCDEF") {
		t.Errorf("%q missing company prefix", id)
	}
	if strings.Trim(id[CompanyIDLength:], alphanumeric) != "" {
		t.Errorf("%q suffix not alphanumeric", id)
	}
}
