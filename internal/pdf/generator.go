package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/nnish16/Tourist-Safety/pkg/model"
	"go.uber.org/zap"
)

// PDFGenerator renders incident case files for operators and authorities
type PDFGenerator struct {
	logger *zap.Logger
}

// NewPDFGenerator creates a new PDFGenerator
func NewPDFGenerator(logger *zap.Logger) *PDFGenerator {
	return &PDFGenerator{
		logger: logger,
	}
}

// CaseFileData contains everything the incident case file renders. Identity
// is nil unless the disclosure gate is open; the report never prints more
// than the caller was authorized to read.
type CaseFileData struct {
	Incident         model.IncidentView
	SubjectIdentity  *model.SubjectIdentity
	SubjectDigitalID string
}

// Generate creates a PDF case file for an incident
func (g *PDFGenerator) Generate(data *CaseFileData) ([]byte, error) {
	g.logger.Info("generating incident case file",
		zap.String("incident_id", data.Incident.ID),
		zap.Bool("identity_included", data.SubjectIdentity != nil),
	)

	// Create new PDF
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	// Add page
	pdf.AddPage()

	g.addTitle(pdf, "Incident Case File", data.Incident.ID)
	g.addIncidentSummary(pdf, data.Incident)
	g.addSubjectSection(pdf, data.SubjectDigitalID, data.SubjectIdentity)
	g.addTriageSection(pdf, data.Incident.Triage)
	g.addEmergencyMessages(pdf, data.Incident.EmergencyMessages)
	g.addEvidenceRefs(pdf, data.Incident.EvidenceRefs)

	// Generate PDF bytes
	var buf bytes.Buffer
	err := pdf.Output(&buf)
	if err != nil {
		g.logger.Error("failed to generate PDF", zap.Error(err))
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	g.logger.Info("incident case file generated successfully",
		zap.Int("size_bytes", buf.Len()),
	)

	return buf.Bytes(), nil
}

// addTitle adds the case file title and header information
func (g *PDFGenerator) addTitle(pdf *gofpdf.Fpdf, title, incidentID string) {
	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Incident: %s", incidentID), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(10)
}

// addSectionHeader adds a section header
func (g *PDFGenerator) addSectionHeader(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(0, 10, title, "", 1, "L", true, 0, "")
	pdf.Ln(3)
	pdf.SetFont("Arial", "", 10)
}

// addIncidentSummary adds the incident summary section
func (g *PDFGenerator) addIncidentSummary(pdf *gofpdf.Fpdf, incident model.IncidentView) {
	g.addSectionHeader(pdf, "Incident Summary")

	pdf.CellFormat(0, 6, fmt.Sprintf("Kind: %s", incident.Kind), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Category: %s", incident.Category), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Severity: %d/5", incident.Severity), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Status: %s", incident.Status), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Reported: %s", incident.Timestamp.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	if incident.Location.ZoneName != "" {
		pdf.CellFormat(0, 6, fmt.Sprintf("Zone: %s (%.5f, %.5f)",
			incident.Location.ZoneName, incident.Location.Lat, incident.Location.Lng), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, "Description:", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 5, incident.Description, "", "L", false)
	pdf.Ln(2)

	if incident.AIAnalysis != "" {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, "Analysis:", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, incident.AIAnalysis, "", "L", false)
	}
	pdf.Ln(5)
}

// addSubjectSection adds the subject section, identity only when disclosed
func (g *PDFGenerator) addSubjectSection(pdf *gofpdf.Fpdf, digitalID string, identity *model.SubjectIdentity) {
	g.addSectionHeader(pdf, "Subject")

	pdf.CellFormat(0, 6, fmt.Sprintf("Digital ID: %s", digitalID), "", 1, "L", false, 0, "")

	if identity == nil {
		pdf.CellFormat(0, 8, "Identity sealed. Disclosure is not authorized for this incident.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	pdf.CellFormat(0, 6, fmt.Sprintf("Name: %s", identity.Name), "", 1, "L", false, 0, "")
	if identity.Age > 0 {
		pdf.CellFormat(0, 6, fmt.Sprintf("Age: %d", identity.Age), "", 1, "L", false, 0, "")
	}
	if identity.Nationality != "" {
		pdf.CellFormat(0, 6, fmt.Sprintf("Nationality: %s", identity.Nationality), "", 1, "L", false, 0, "")
	}
	if identity.FirstContact != nil {
		pdf.CellFormat(0, 6, fmt.Sprintf("Emergency Contact: %s (%s) %s",
			identity.FirstContact.Name, identity.FirstContact.Relation, identity.FirstContact.Phone), "", 1, "L", false, 0, "")
	}
	pdf.Ln(5)
}

// addTriageSection adds the triage section
func (g *PDFGenerator) addTriageSection(pdf *gofpdf.Fpdf, triage *model.SOSTriageResult) {
	g.addSectionHeader(pdf, "Triage")

	if triage == nil {
		pdf.CellFormat(0, 8, "No multimodal triage ran for this incident.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	pdf.CellFormat(0, 6, fmt.Sprintf("Severity: %s", triage.Severity), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Recommended Response: %s", triage.RecommendedResponse), "", 1, "L", false, 0, "")
	if triage.PanicScore != nil {
		pdf.CellFormat(0, 6, fmt.Sprintf("Panic Score: %.2f", *triage.PanicScore), "", 1, "L", false, 0, "")
	}
	if triage.UrgencyScore != nil {
		pdf.CellFormat(0, 6, fmt.Sprintf("Urgency Score: %.2f", *triage.UrgencyScore), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, "Transcript:", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 5, triage.Transcript, "", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, "Image Analysis:", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 5, triage.ImageAnalysis, "", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, "Brief:", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 5, triage.AdminBrief, "", "L", false)
	pdf.Ln(5)
}

// addEmergencyMessages adds the generated emergency messages section
func (g *PDFGenerator) addEmergencyMessages(pdf *gofpdf.Fpdf, messages []model.EmergencyMessage) {
	g.addSectionHeader(pdf, "Emergency Messages")

	if len(messages) == 0 {
		pdf.CellFormat(0, 8, "No emergency messages were generated.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	for _, message := range messages {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, fmt.Sprintf("%s (%s)", message.Target, message.Language), "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, message.SMS, "", "L", false)
		pdf.Ln(2)
	}
	pdf.Ln(5)
}

// addEvidenceRefs adds the evidence references section
func (g *PDFGenerator) addEvidenceRefs(pdf *gofpdf.Fpdf, refs []string) {
	g.addSectionHeader(pdf, "Evidence")

	if len(refs) == 0 {
		pdf.CellFormat(0, 8, "No evidence attached.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	for _, ref := range refs {
		pdf.CellFormat(0, 5, fmt.Sprintf("  - %s", ref), "", 1, "L", false, 0, "")
	}
	pdf.Ln(5)
}
