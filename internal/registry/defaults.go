package registry

import "github.com/stompsid-lgtm/clinicsnap/internal/model"

// defaultClinics is the clinic set the tool ships with. A registry file
// overrides it entirely; there is no merging.
func defaultClinics() []model.ClinicSource {
	return []model.ClinicSource{
		// Social-media sources: screenshot evidence, transcription tracked
		// per snapshot. Facebook pages may redirect to a login wall.
		{ID: "c01", Name: "禾安復健科", SourceType: model.SourceSocial, Platform: model.PlatformFacebook},
		{ID: "c09", Name: "健維骨科", SourceType: model.SourceSocial, Platform: model.PlatformFacebook},
		{ID: "c10", Name: "板橋維力", SourceType: model.SourceSocial, Platform: model.PlatformLineVoom},
		{ID: "c12", Name: "陳正傑骨科", SourceType: model.SourceSocial, Platform: model.PlatformFacebook},
		{ID: "c17", Name: "仁祐骨科", SourceType: model.SourceSocial, Platform: model.PlatformFacebook},
		{ID: "c22", Name: "順安復健科", SourceType: model.SourceSocial, Platform: model.PlatformFacebook},

		// Static-image sources: evidence arrives by manual ingestion,
		// verification tracked per clinic with a 180-day review cycle.
		{ID: "c08", Name: "正陽骨科", SourceType: model.SourceImage, Platform: model.PlatformStaticImage, ReviewIntervalDays: 180},
		{ID: "c13", Name: "悅滿意永和", SourceType: model.SourceImage, Platform: model.PlatformStaticImage, ReviewIntervalDays: 180},
		{ID: "c14", Name: "悅滿意新店", SourceType: model.SourceImage, Platform: model.PlatformStaticImage, ReviewIntervalDays: 180},

		// CXMS web sources: HTML evidence via plain HTTP fetch.
		{ID: "c02", Name: "承新骨科", SourceType: model.SourceWeb, Platform: model.PlatformGenericWeb, URL: "http://web.cxms.com.tw/wn/hosp.php"},
	}
}
