package prismop

import "testing"

func TestParseServiceTypeSingleValue(t *testing.T) {
	param := ParametersV1()
	st, err := ParseServiceType("LinkedDomains", param)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if st.IsList() || st.Value != "LinkedDomains" {
		t.Fatalf("unexpected service type: %+v", st)
	}
}

func TestParseServiceTypeJSONList(t *testing.T) {
	param := ParametersV1()
	st, err := ParseServiceType(`["LinkedDomains","DIDCommMessaging"]`, param)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !st.IsList() || len(st.List) != 2 {
		t.Fatalf("unexpected service type: %+v", st)
	}
}

func TestParseServiceTypeRejectsNonCanonicalJSON(t *testing.T) {
	param := ParametersV1()
	if _, err := ParseServiceType(`[ "LinkedDomains" ]`, param); err == nil {
		t.Fatal("expected error: extra whitespace must not re-serialize identically")
	}
}

func TestParseServiceTypeRejectsEmptyList(t *testing.T) {
	param := ParametersV1()
	if _, err := ParseServiceType(`[]`, param); err == nil {
		t.Fatal("expected error for empty list")
	}
}

func TestParseServiceEndpointURI(t *testing.T) {
	param := ParametersV1()
	se, err := ParseServiceEndpoint("https://example.com/endpoint", param)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if se.Value.URI != "https://example.com/endpoint" {
		t.Fatalf("unexpected endpoint: %+v", se)
	}
}

func TestParseServiceEndpointJSONObject(t *testing.T) {
	param := ParametersV1()
	se, err := ParseServiceEndpoint(`{"uri":"https://example.com","accept":["didcomm/v2"]}`, param)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if se.Value.JSON == nil || se.Value.JSON["uri"] != "https://example.com" {
		t.Fatalf("unexpected endpoint: %+v", se)
	}
}

func TestParseServiceEndpointList(t *testing.T) {
	param := ParametersV1()
	se, err := ParseServiceEndpoint(`["https://a.example.com","https://b.example.com"]`, param)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(se.List) != 2 {
		t.Fatalf("expected 2 endpoints, got %d", len(se.List))
	}
}

func TestParseServiceEndpointRejectsInvalidURI(t *testing.T) {
	param := ParametersV1()
	if _, err := ParseServiceEndpoint("not a uri", param); err == nil {
		t.Fatal("expected error for non-URI, non-JSON endpoint")
	}
}

func TestParsePublicKeyIDRejectsEmptyAndOverlong(t *testing.T) {
	if _, err := ParsePublicKeyID("", 50); err == nil {
		t.Fatal("expected error for empty id")
	}
	long := make([]byte, 51)
	for i := range long {
		long[i] = 'a'
	}
	if _, err := ParsePublicKeyID(string(long), 50); err == nil {
		t.Fatal("expected error for overlong id")
	}
}

func TestParsePublicKeyIDRejectsInvalidFragment(t *testing.T) {
	if _, err := ParsePublicKeyID("hello world", 50); err == nil {
		t.Fatal("expected error for id with embedded space")
	}
}

func TestParsePublicKeyIDAcceptsPercentEncoded(t *testing.T) {
	id, err := ParsePublicKeyID("master%20key", 50)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if id != "master%20key" {
		t.Fatalf("unexpected id: %q", id)
	}
}
