package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/chaudhryu/police-report-request-backend/internal/model"
	pkgerrors "github.com/chaudhryu/police-report-request-backend/pkg/errors"
)

func TestParseRejectsMalformedJSON(t *testing.T) {
	cases := []string{
		``,
		`not json`,
		`[1,2,3]`,
		`"just a string"`,
		`{"unterminated": `,
	}
	for _, input := range cases {
		if _, err := Parse([]byte(input)); !errors.Is(err, pkgerrors.ErrInvalidPayload) {
			t.Errorf("Parse(%q) error = %v, want ErrInvalidPayload", input, err)
		}
	}
}

func TestFieldIsCaseInsensitive(t *testing.T) {
	doc, err := Parse([]byte(`{"CaseNumber":"24-00123","count":7,"nested":{"x":1}}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if got := doc.Field("casenumber"); got != "24-00123" {
		t.Errorf("Field(casenumber) = %q, want 24-00123", got)
	}
	if got := doc.Field("COUNT"); got != "7" {
		t.Errorf("Field(COUNT) = %q, want 7", got)
	}
	if got := doc.Field("nested"); got != "" {
		t.Errorf("Field(nested) = %q, want empty for object values", got)
	}
	if got := doc.Field("missing"); got != "" {
		t.Errorf("Field(missing) = %q, want empty", got)
	}
}

func TestFirstNonEmptyPreferenceOrder(t *testing.T) {
	doc, err := Parse([]byte(`{"address":"100 Main St","crossStreets":"  ","location":"City Hall"}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if got := doc.FirstNonEmpty("crossStreets", "address", "location"); got != "100 Main St" {
		t.Errorf("FirstNonEmpty = %q, want blank crossStreets skipped", got)
	}
	if got := doc.IncidentLocation(); got != "100 Main St" {
		t.Errorf("IncidentLocation = %q, want 100 Main St", got)
	}
}

func TestMergeAttachmentsPreservesOtherFields(t *testing.T) {
	original := `{"firstName":"Ada","incidentDate":"2026-01-15","witnesses":["one","two"],"score":3.50}`
	doc, err := Parse([]byte(original))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	entry := model.AttachmentMeta{
		Container:   "report-attachments",
		BlobName:    "user/abc-photo.jpg",
		FileName:    "photo.jpg",
		ContentType: "image/jpeg",
		Length:      2048,
		Role:        model.AttachmentRoleUser,
		UploadedUTC: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
	}
	merged, err := doc.MergeAttachments([]model.AttachmentMeta{entry})
	if err != nil {
		t.Fatalf("MergeAttachments: %v", err)
	}

	out, err := merged.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	// Every original field must survive byte-for-byte, in order.
	if !bytes.HasPrefix(out, []byte(original[:len(original)-1])) {
		t.Errorf("merged output does not start with the untouched original fields:\n%s", out)
	}

	atts := merged.Attachments()
	if len(atts) != 1 || atts[0].BlobName != entry.BlobName {
		t.Fatalf("Attachments = %+v, want the merged entry", atts)
	}
}

func TestMergeAttachmentsIsOrderPreservingAndAssociative(t *testing.T) {
	doc, err := Parse([]byte(`{"description":"broken window","attachments":[{"container":"c","blobName":"k0","fileName":"existing.pdf","contentType":"application/pdf","length":10,"uploadedUtc":"2026-01-01T00:00:00Z"}]}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	setA := []model.AttachmentMeta{{Container: "c", BlobName: "k1", FileName: "a.jpg"}}
	setB := []model.AttachmentMeta{{Container: "c", BlobName: "k2", FileName: "b.jpg"}}

	stepwise, err := doc.MergeAttachments(setA)
	if err != nil {
		t.Fatalf("merge A: %v", err)
	}
	stepwise, err = stepwise.MergeAttachments(setB)
	if err != nil {
		t.Fatalf("merge B: %v", err)
	}

	combined, err := doc.MergeAttachments(append(append([]model.AttachmentMeta{}, setA...), setB...))
	if err != nil {
		t.Fatalf("merge A+B: %v", err)
	}

	left, _ := stepwise.Encode()
	right, _ := combined.Encode()
	if !bytes.Equal(left, right) {
		t.Errorf("stepwise merge != combined merge:\n%s\n%s", left, right)
	}

	order := stepwise.Attachments()
	want := []string{"k0", "k1", "k2"}
	if len(order) != len(want) {
		t.Fatalf("got %d attachments, want %d", len(order), len(want))
	}
	for i, blob := range want {
		if order[i].BlobName != blob {
			t.Errorf("attachment[%d] = %s, want %s", i, order[i].BlobName, blob)
		}
	}
}

func TestMergeAttachmentsEmptySetIsNoop(t *testing.T) {
	original := `{"a":1,"b":"two"}`
	doc, err := Parse([]byte(original))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	merged, err := doc.MergeAttachments(nil)
	if err != nil {
		t.Fatalf("MergeAttachments: %v", err)
	}
	out, _ := merged.Encode()
	if string(out) != original {
		t.Errorf("Encode = %s, want %s", out, original)
	}
}

func TestIncidentDetailsOmitsBlankFields(t *testing.T) {
	doc, err := Parse([]byte(`{"caseNumber":"24-00123","IncidentType":"Vandalism","description":"","address":"100 Main St"}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	lines := doc.IncidentDetails()
	labels := make([]string, len(lines))
	for i, line := range lines {
		labels[i] = line.Label
	}

	want := []string{"Case Number", "Incident Type", "Address"}
	if len(labels) != len(want) {
		t.Fatalf("labels = %v, want %v", labels, want)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("labels[%d] = %s, want %s", i, labels[i], want[i])
		}
	}
}

func TestEncodeRoundTripsArbitraryShapes(t *testing.T) {
	original := `{"z":"last","a":"first","deep":{"k":[1,2,{"m":null}]},"n":null}`
	doc, err := Parse([]byte(original))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	out, err := doc.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var decoded interface{}
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("round-tripped output is not valid JSON: %v", err)
	}
	if string(out) != original {
		t.Errorf("Encode = %s, want byte-identical %s", out, original)
	}
}
