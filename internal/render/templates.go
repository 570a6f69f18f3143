package render

// Chrome fills elements with class pageNumber and totalPages.
const (
	headerFragment = `<div class="report-page-header">
            <span class="report-page-header-number pageNumber"></span>
            <span class="report-page-header-separator">/</span>
            <span class="report-page-header-total-pages totalPages"></span>
          </div>`

	footerFragment = `<div class="report-page-footer">
            <span class="report-page-footer-number pageNumber"></span>
            <span class="report-page-footer-separator">/</span>
            <span class="report-page-footer-total-pages totalPages"></span>
          </div>`
)

func headerTemplate(css string) string { return css + headerFragment }

func footerTemplate(css string) string { return css + footerFragment }
