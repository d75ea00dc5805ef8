package parser

import (
	"strings"
	"testing"
)

func TestHTMLSource_TitleAndHeadings(t *testing.T) {
	input := `<html>
<head><title>Annual Report</title><style>body { color: red }</style></head>
<body>
<nav>Skip this navigation</nav>
<h1>Financial Summary</h1>
<p>Revenue grew over the year.</p>
<h2>Expenses</h2>
<p>Costs were kept under control.</p>
<h5>Fine Print</h5>
<script>console.log("ignore me")</script>
<footer>Copyright footer</footer>
</body>
</html>`

	src := &HTMLSource{}
	frags, err := src.Parse(strings.NewReader(input), "report.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	texts := make([]string, len(frags))
	sizeOf := make(map[string]float64, len(frags))
	for i, f := range frags {
		texts[i] = f.Text
		sizeOf[f.Text] = f.FontSize
	}

	if len(frags) == 0 || frags[0].Text != "Annual Report" {
		t.Fatalf("expected document title first, got %v", texts)
	}
	if !(sizeOf["Annual Report"] > sizeOf["Financial Summary"]) {
		t.Error("expected title larger than h1")
	}
	if !(sizeOf["Financial Summary"] > sizeOf["Expenses"]) {
		t.Error("expected h1 larger than h2")
	}
	if !(sizeOf["Expenses"] > sizeOf["Fine Print"]) {
		t.Error("expected h2 larger than collapsed h5")
	}
	if !(sizeOf["Fine Print"] > sizeOf["Revenue grew over the year."]) {
		t.Error("expected body text smaller than any heading")
	}

	for _, txt := range texts {
		if strings.Contains(txt, "navigation") || strings.Contains(txt, "ignore me") ||
			strings.Contains(txt, "Copyright") || strings.Contains(txt, "color: red") {
			t.Errorf("chrome content leaked into fragments: %q", txt)
		}
	}
}

func TestHTMLSource_NoTitle(t *testing.T) {
	input := `<html><body><p>Just a paragraph.</p></body></html>`
	src := &HTMLSource{}
	frags, err := src.Parse(strings.NewReader(input), "bare.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(frags) != 1 || frags[0].Text != "Just a paragraph." {
		t.Errorf("expected a single body fragment, got %+v", frags)
	}
	if frags[0].IsBold {
		t.Error("body fragment must not be bold")
	}
}
