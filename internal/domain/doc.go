// Package domain models citizen hazard reports and the rules of the
// automated verification pipeline.
//
// # Reports
//
// A report carries a (longitude, latitude) pair from the submitting device,
// a free-text description, a reference to already-uploaded media, and one of
// five hazard kinds. Reports are created pending with a zero confidence
// score; the pipeline writes the score at most once per report, and staff
// can override the status at any time.
//
// # Confidence scoring
//
// The score is a 0–100 composite built from two sequential gates:
//
//	Gate A (geo-fence): 30 points when the coordinates fall inside the
//	configured bounding box. A miss is terminal — the report is out of
//	domain, the classifier is never called, and the score stays 0.
//
//	Gate B (classification): up to 70 points, round(topScore * 70), awarded
//	only when the external classifier's top label is in the candidate set
//	with confidence strictly above 0.70. A classifier failure awards 0
//	points and the run continues; it never aborts the pipeline.
//
// A composed score of 85 or more auto-verifies the report; anything less
// leaves it pending for manual review. The split, thresholds, and bounding
// box live in [ScoringConfig] so deployments and tests can tune them.
//
// # Status races
//
// The pipeline runs detached from the submission request, so a staff
// decision can land while scoring is in flight. The automatic outcome is
// therefore written through [ReportStore.SetOutcomeIfPending], a conditional
// update that is refused once the report has left pending. The human
// decision always wins; the score may still be recorded for audit.
//
// # Hotspots
//
// Hotspots bucket verified reports on a fixed grid: latitude and longitude
// rounded independently to two decimal places (~1 km cells), keeping cells
// with more than one report. This is a deliberate approximation — clusters
// straddling a cell boundary split — preserved from the operational system
// rather than replaced with density-based clustering.
package domain
