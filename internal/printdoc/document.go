package printdoc

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"skill_console/internal/model"
	"skill_console/internal/scoring"
)

const DefaultColumnsPerPage = 10

type MetaField struct {
	Label string
	Value string
}

type Options struct {
	Title          string
	Meta           []MetaField
	GeneratedAt    string
	PrintFriendly  bool
	RequiredLevel  int
	ColumnsPerPage int
}

func (o Options) columns() int {
	if o.ColumnsPerPage <= 0 {
		return DefaultColumnsPerPage
	}
	return o.ColumnsPerPage
}

func (o Options) title(def string) string {
	if strings.TrimSpace(o.Title) == "" {
		return def
	}
	return o.Title
}

// Escape 转义 & < > " '，所有来自用户的文本都必须经过这里
func Escape(s string) string {
	return html.EscapeString(s)
}

func writeHeader(b *strings.Builder, title string, opts Options) {
	fmt.Fprintf(b, `<h1 class="doc-title">%s</h1>`, Escape(title))
	if len(opts.Meta) > 0 {
		b.WriteString(`<table class="doc-meta"><tbody>`)
		for _, m := range opts.Meta {
			fmt.Fprintf(b, `<tr><th>%s</th><td>%s</td></tr>`, Escape(m.Label), Escape(m.Value))
		}
		b.WriteString(`</tbody></table>`)
	}
	if opts.GeneratedAt != "" {
		fmt.Fprintf(b, `<p class="doc-generated">Generated at %s</p>`, Escape(opts.GeneratedAt))
	}
	writeLegend(b, opts.PrintFriendly)
}

func writeLegend(b *strings.Builder, printFriendly bool) {
	color := scoring.Palette(printFriendly)
	b.WriteString(`<div class="legend"><strong>Legend:</strong>`)
	for level := scoring.MinLevel; level <= scoring.MaxLevel; level++ {
		c := color(level)
		fmt.Fprintf(b, ` <span class="legend-item" style="background:%s;color:%s">%d - %s</span>`,
			c.Background, c.Foreground, level, scoring.LevelLabel(level))
	}
	b.WriteString(`</div>`)
}

func levelCell(level *int, printFriendly bool) string {
	if level == nil {
		c := scoring.Palette(printFriendly)(0)
		return fmt.Sprintf(`<td class="level level-unset" style="background:%s;color:%s">-</td>`, c.Background, c.Foreground)
	}
	l := scoring.ClampLevel(*level)
	c := scoring.Palette(printFriendly)(l)
	return fmt.Sprintf(`<td class="level" style="background:%s;color:%s">%d</td>`, c.Background, c.Foreground, l)
}

func percentCell(pct float64) string {
	c := scoring.PercentColor(pct)
	return fmt.Sprintf(`<td class="completion completion-%s" style="background:%s;color:%s">%s%%</td>`,
		c.Bucket, c.Background, c.Foreground, formatPercent(pct))
}

func formatPercent(p float64) string {
	return strconv.FormatFloat(scoring.ClampPercent(p), 'f', -1, 64)
}

func writeSummary(b *strings.Builder, s *scoring.MatrixSummary) {
	if s == nil {
		return
	}
	c := scoring.PercentColor(s.CompletionPercentage)
	fmt.Fprintf(b, `<p class="summary">Total skills: %d | Required score: %d | Current score: %d | Completion: <span style="background:%s;color:%s">%s%%</span></p>`,
		s.TotalSkills, s.TotalRequiredScore, s.TotalCurrentScore, c.Background, c.Foreground, formatPercent(s.CompletionPercentage))
}

// BuildMatrixDocument 单个员工的技能矩阵打印片段
func BuildMatrixDocument(rows []model.SkillLevelCell, summary *scoring.MatrixSummary, opts Options) string {
	var b strings.Builder
	b.WriteString(`<div class="matrix-document">`)
	writeHeader(&b, opts.title("Skill Matrix"), opts)

	b.WriteString(`<table class="matrix-table"><thead><tr><th>#</th><th>Skill</th><th>Category</th><th>Required</th><th>Current</th><th>Priority</th></tr></thead><tbody>`)
	for i, row := range rows {
		name := row.SkillName
		if name == "" {
			name = "Skill " + strconv.FormatUint(uint64(row.SkillID), 10)
		}
		fmt.Fprintf(&b, `<tr><td>%d</td><td>%s</td><td>%s</td>`, i+1, Escape(name), Escape(row.Category))
		if row.Unmapped {
			b.WriteString(`<td colspan="3" class="not-assigned">Not assigned</td></tr>`)
			continue
		}
		fmt.Fprintf(&b, `<td>%d</td>`, scoring.ClampLevel(row.RequiredLevel))
		b.WriteString(levelCell(row.CurrentLevel, opts.PrintFriendly))
		p := scoring.PriorityFromLevel(row.CurrentLevel)
		fmt.Fprintf(&b, `<td class="priority priority-%s">%s</td></tr>`, strings.ToLower(p.Key.String()), p.Label)
	}
	if len(rows) == 0 {
		b.WriteString(`<tr><td colspan="6" class="empty">No skills assigned</td></tr>`)
	}
	b.WriteString(`</tbody></table>`)

	writeSummary(&b, summary)
	b.WriteString(`</div>`)
	return b.String()
}

// PageCount 组织矩阵按技能列分页后的页数，至少一页
func PageCount(skillCount, columnsPerPage int) int {
	if columnsPerPage <= 0 {
		columnsPerPage = DefaultColumnsPerPage
	}
	if skillCount <= 0 {
		return 1
	}
	return (skillCount + columnsPerPage - 1) / columnsPerPage
}

// BuildOrgMatrixDocument 全组织技能矩阵，技能列按 ColumnsPerPage 分页；
// 第一页带标题和图例，之后每页只标注页码
func BuildOrgMatrixDocument(subjects []model.MatrixRow, skills []model.Skill, opts Options) string {
	cols := opts.columns()
	pages := PageCount(len(skills), cols)
	required := opts.RequiredLevel
	if required <= 0 {
		required = scoring.DefaultRequiredLevel
	}

	summaries := make([]scoring.MatrixSummary, len(subjects))
	for i, s := range subjects {
		summaries[i] = scoring.ComputeCompletion(s.Cells, required)
	}

	var b strings.Builder
	b.WriteString(`<div class="matrix-document org-matrix">`)
	for page := 0; page < pages; page++ {
		start := page * cols
		end := start + cols
		if end > len(skills) {
			end = len(skills)
		}
		chunk := skills[start:end]

		pageBreak := ""
		if page < pages-1 {
			pageBreak = ` style="page-break-after:always"`
		}
		fmt.Fprintf(&b, `<section class="page" data-page="%d"%s>`, page+1, pageBreak)
		if page == 0 {
			writeHeader(&b, opts.title("Organization Skill Matrix"), opts)
		} else {
			fmt.Fprintf(&b, `<div class="page-number">Page %d of %d</div>`, page+1, pages)
		}

		b.WriteString(`<table class="matrix-table"><thead><tr><th>#</th><th>Employee</th><th>Department</th><th>Designation</th>`)
		for _, sk := range chunk {
			fmt.Fprintf(&b, `<th class="skill">%s</th>`, Escape(sk.Name))
		}
		b.WriteString(`<th>Completion</th></tr></thead><tbody>`)

		for i, subject := range subjects {
			fmt.Fprintf(&b, `<tr><td>%d</td><td>%s</td><td>%s</td><td>%s</td>`,
				i+1, Escape(subject.Name), Escape(subject.Department), Escape(subject.Designation))
			for _, sk := range chunk {
				cell, ok := subject.CellFor(sk.ID)
				if !ok || cell.Unmapped {
					b.WriteString(`<td class="level level-na">N/A</td>`)
					continue
				}
				b.WriteString(levelCell(cell.CurrentLevel, opts.PrintFriendly))
			}
			b.WriteString(percentCell(summaries[i].CompletionPercentage))
			b.WriteString(`</tr>`)
		}
		if len(subjects) == 0 {
			fmt.Fprintf(&b, `<tr><td colspan="%d" class="empty">No employees found</td></tr>`, len(chunk)+5)
		}
		b.WriteString(`</tbody></table></section>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

// WrapPage 把片段包成可直接在新标签页打印的完整 HTML
func WrapPage(title, fragment string) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
	fmt.Fprintf(&b, `<title>%s</title>`, Escape(title))
	b.WriteString(`<style>
body{font-family:Arial,Helvetica,sans-serif;font-size:12px;margin:16px}
.matrix-table{border-collapse:collapse;width:100%;margin-top:8px}
.matrix-table th,.matrix-table td{border:1px solid #999;padding:4px 6px;text-align:center}
.legend-item{display:inline-block;padding:2px 6px;margin-left:4px;border-radius:3px}
.page-number{text-align:right;font-style:italic;margin-bottom:4px}
@media print{.page{page-break-inside:avoid}}
</style></head><body>`)
	b.WriteString(fragment)
	b.WriteString(`</body></html>`)
	return b.String()
}
