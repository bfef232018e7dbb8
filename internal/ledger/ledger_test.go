package ledger

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/privatep88/record-water-elc/internal/model"
)

// newTestLedger 创建带一个模板站点的台账
func newTestLedger(year int) (*Ledger, *model.SiteData) {
	l := New(year)
	site := model.NewSite("别墅A", "W-1001", 0)
	l.AddSiteGlobally(site)
	return l, site
}

// findSite 在快照中按 ID 取站点
func findSite(t *testing.T, sites []*model.SiteData, id string) *model.SiteData {
	t.Helper()
	for _, s := range sites {
		if s.ID == id {
			return s
		}
	}
	t.Fatalf("site %s not found in snapshot", id)
	return nil
}

// TestSetCellValueRecalcsTotal 测试写值后合计行重算
func TestSetCellValueRecalcsTotal(t *testing.T) {
	l, site := newTestLedger(2026)

	waterCost := site.Rows[1]
	elecCost := site.Rows[3]

	if err := l.SetCellValue(2026, site.ID, waterCost.ID, model.MonthJan, "50"); err != nil {
		t.Fatalf("SetCellValue: %v", err)
	}
	if err := l.SetCellValue(2026, site.ID, elecCost.ID, model.MonthJan, "200"); err != nil {
		t.Fatalf("SetCellValue: %v", err)
	}

	got := findSite(t, l.ActiveSites(2026), site.ID)
	if v := got.TotalRow().Value(model.MonthJan); v != 250 {
		t.Errorf("total[jan] = %v, want 250", v)
	}
	// 其他月份不受影响
	if v := got.TotalRow().Value(model.MonthFeb); v != 0 {
		t.Errorf("total[feb] = %v, want 0", v)
	}
}

// TestSetCellValueNonCostIgnored 测试非计费行不计入合计
func TestSetCellValueNonCostIgnored(t *testing.T) {
	l, site := newTestLedger(2026)

	water := site.Rows[0] // 水用量，非计费
	if err := l.SetCellValue(2026, site.ID, water.ID, model.MonthJan, "10"); err != nil {
		t.Fatalf("SetCellValue: %v", err)
	}

	got := findSite(t, l.ActiveSites(2026), site.ID)
	if v := got.TotalRow().Value(model.MonthJan); v != 0 {
		t.Errorf("total[jan] = %v, want 0 (usage rows are not cost)", v)
	}
}

// TestSetCellValueTolerantParse 测试空串与非法输入宽容为 0
func TestSetCellValueTolerantParse(t *testing.T) {
	l, site := newTestLedger(2026)
	waterCost := site.Rows[1]

	if err := l.SetCellValue(2026, site.ID, waterCost.ID, model.MonthJan, "50"); err != nil {
		t.Fatalf("SetCellValue: %v", err)
	}
	if err := l.SetCellValue(2026, site.ID, waterCost.ID, model.MonthJan, ""); err != nil {
		t.Fatalf("SetCellValue empty: %v", err)
	}

	got := findSite(t, l.ActiveSites(2026), site.ID)
	if v := got.TotalRow().Value(model.MonthJan); v != 0 {
		t.Errorf("total[jan] = %v, want 0 after clearing", v)
	}

	if err := l.SetCellValue(2026, site.ID, waterCost.ID, model.MonthFeb, "abc"); err != nil {
		t.Fatalf("SetCellValue invalid: %v", err)
	}
	got = findSite(t, l.ActiveSites(2026), site.ID)
	if v := got.Rows[1].Value(model.MonthFeb); v != 0 {
		t.Errorf("value = %v, want 0 for non-numeric input", v)
	}

	// 千分位分隔符剔除
	if err := l.SetCellValue(2026, site.ID, waterCost.ID, model.MonthMar, "1,234.56"); err != nil {
		t.Fatalf("SetCellValue grouped: %v", err)
	}
	got = findSite(t, l.ActiveSites(2026), site.ID)
	if v := got.Rows[1].Value(model.MonthMar); v != 1234.56 {
		t.Errorf("value = %v, want 1234.56", v)
	}
}

// TestRoundingStability 测试累加取整抑制浮点漂移
// 0.1 + 0.2 + 0.1 的合计必须收敛到精确的 2 位小数
func TestRoundingStability(t *testing.T) {
	l, site := newTestLedger(2026)

	waterCost := site.Rows[1]
	elecCost := site.Rows[3]

	l.SetCellValue(2026, site.ID, waterCost.ID, model.MonthJan, "0.1")
	l.SetCellValue(2026, site.ID, elecCost.ID, model.MonthJan, "0.2")

	got := findSite(t, l.ActiveSites(2026), site.ID)
	if v := got.TotalRow().Value(model.MonthJan); v != 0.3 {
		t.Errorf("total[jan] = %v, want exactly 0.3", v)
	}

	// 再加一条 0.1 的计费行
	row, err := l.AddRow(2026, site.ID, "维修费金额", -1)
	if err != nil {
		t.Fatalf("AddRow: %v", err)
	}
	isCost := true
	if err := l.UpdateRow(2026, site.ID, row.ID, RowUpdate{IsCost: &isCost}); err != nil {
		t.Fatalf("UpdateRow: %v", err)
	}
	l.SetCellValue(2026, site.ID, row.ID, model.MonthJan, "0.1")

	got = findSite(t, l.ActiveSites(2026), site.ID)
	if v := got.TotalRow().Value(model.MonthJan); v != 0.4 {
		t.Errorf("total[jan] = %v, want exactly 0.4", v)
	}
}

// TestAddRowPosition 测试插入位置：默认插在合计行之前
func TestAddRowPosition(t *testing.T) {
	l, site := newTestLedger(2026)

	row, err := l.AddRow(2026, site.ID, "燃气费金额", -1)
	if err != nil {
		t.Fatalf("AddRow: %v", err)
	}
	if row.Kind != model.RowKindInput || row.IsCost {
		t.Error("new row should be a plain input row with isCost=false")
	}

	got := findSite(t, l.ActiveSites(2026), site.ID)
	if len(got.Rows) != 6 {
		t.Fatalf("rows = %d, want 6", len(got.Rows))
	}
	// 合计行仍是最后一行，新行在它前面
	if got.Rows[5].Kind != model.RowKindCalculatedTotal {
		t.Error("total row should stay last")
	}
	if got.Rows[4].Label != "燃气费金额" {
		t.Errorf("row[4] = %s, want 燃气费金额", got.Rows[4].Label)
	}

	// 指定下标插入
	if _, err := l.AddRow(2026, site.ID, "垃圾费", 0); err != nil {
		t.Fatalf("AddRow after 0: %v", err)
	}
	got = findSite(t, l.ActiveSites(2026), site.ID)
	if got.Rows[1].Label != "垃圾费" {
		t.Errorf("row[1] = %s, want 垃圾费", got.Rows[1].Label)
	}
}

// TestAddRowAppendsWithoutTotalRow 测试无合计行时追加到末尾
func TestAddRowAppendsWithoutTotalRow(t *testing.T) {
	l := New(2026)
	site := &model.SiteData{ID: "s1", Name: "车库", Rows: []*model.ConsumptionRow{
		model.NewInputRow("电费金额"),
	}}
	l.AddSiteGlobally(site)

	if _, err := l.AddRow(2026, "s1", "水费金额", -1); err != nil {
		t.Fatalf("AddRow: %v", err)
	}
	got := findSite(t, l.ActiveSites(2026), "s1")
	if len(got.Rows) != 2 || got.Rows[1].Label != "水费金额" {
		t.Error("row should be appended at the end when no total row exists")
	}
}

// TestDeleteRowRecalcsTotal 测试删行后合计重算
func TestDeleteRowRecalcsTotal(t *testing.T) {
	l, site := newTestLedger(2026)

	l.SetCellValue(2026, site.ID, site.Rows[1].ID, model.MonthJan, "50")
	l.SetCellValue(2026, site.ID, site.Rows[3].ID, model.MonthJan, "200")

	// 删掉水费行（下标 1）
	if err := l.DeleteRow(2026, site.ID, 1); err != nil {
		t.Fatalf("DeleteRow: %v", err)
	}

	got := findSite(t, l.ActiveSites(2026), site.ID)
	if len(got.Rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(got.Rows))
	}
	if v := got.TotalRow().Value(model.MonthJan); v != 200 {
		t.Errorf("total[jan] = %v, want 200 after delete", v)
	}
}

// TestDeleteTotalRowProtected 测试合计行受保护
func TestDeleteTotalRowProtected(t *testing.T) {
	l, site := newTestLedger(2026)

	err := l.DeleteRow(2026, site.ID, 4)
	if err != ErrTotalRowProtected {
		t.Fatalf("err = %v, want ErrTotalRowProtected", err)
	}

	// 整体不生效
	got := findSite(t, l.ActiveSites(2026), site.ID)
	if len(got.Rows) != 5 {
		t.Errorf("rows = %d, want 5 (delete must be a no-op)", len(got.Rows))
	}

	if err := l.DeleteRow(2026, site.ID, 99); err != ErrRowNotFound {
		t.Errorf("out of range err = %v, want ErrRowNotFound", err)
	}
}

// TestNotFoundIsCleanNoop 测试定位失败整体不生效
func TestNotFoundIsCleanNoop(t *testing.T) {
	l, site := newTestLedger(2026)

	if err := l.SetCellValue(2026, "missing", "r", model.MonthJan, "1"); err != ErrSiteNotFound {
		t.Errorf("err = %v, want ErrSiteNotFound", err)
	}
	if err := l.SetCellValue(2026, site.ID, "missing", model.MonthJan, "1"); err != ErrRowNotFound {
		t.Errorf("err = %v, want ErrRowNotFound", err)
	}
	if _, err := l.AddRow(2026, "missing", "x", -1); err != ErrSiteNotFound {
		t.Errorf("err = %v, want ErrSiteNotFound", err)
	}
}

// TestMaterializeOnWriteNotRead 测试只读访问不物化年份
func TestMaterializeOnWriteNotRead(t *testing.T) {
	l, site := newTestLedger(2026)

	// 只读 2030：能看到模板站点，但不落账
	view := l.ActiveSites(2030)
	if len(view) != 1 {
		t.Fatalf("view of 2030 should show 1 template site, got %d", len(view))
	}
	for _, y := range l.Years() {
		if y == 2030 {
			t.Fatal("read access must not materialize a year")
		}
	}

	// 写 2030：物化
	if err := l.SetCellValue(2030, site.ID, site.Rows[1].ID, model.MonthJan, "7"); err != nil {
		t.Fatalf("SetCellValue: %v", err)
	}
	materialized := false
	for _, y := range l.Years() {
		if y == 2030 {
			materialized = true
		}
	}
	if !materialized {
		t.Error("write access must materialize the year")
	}
}

// TestYearIsolation 测试年份之间值互不影响
func TestYearIsolation(t *testing.T) {
	l, site := newTestLedger(2026)

	l.SetCellValue(2026, site.ID, site.Rows[1].ID, model.MonthJan, "100")
	l.SetCellValue(2027, site.ID, site.Rows[1].ID, model.MonthJan, "200")

	s26 := findSite(t, l.ActiveSites(2026), site.ID)
	s27 := findSite(t, l.ActiveSites(2027), site.ID)
	if s26.Rows[1].Value(model.MonthJan) != 100 {
		t.Errorf("2026 value = %v, want 100", s26.Rows[1].Value(model.MonthJan))
	}
	if s27.Rows[1].Value(model.MonthJan) != 200 {
		t.Errorf("2027 value = %v, want 200", s27.Rows[1].Value(model.MonthJan))
	}
}

// TestGrandTotals 测试跨站点月度总计与各站点合计一致
func TestGrandTotals(t *testing.T) {
	l, a := newTestLedger(2026)
	b := model.NewSite("别墅B", "W-1002", 0)
	l.AddSiteGlobally(b)

	l.SetCellValue(2026, a.ID, a.Rows[1].ID, model.MonthJan, "50")
	l.SetCellValue(2026, a.ID, a.Rows[3].ID, model.MonthJan, "200")
	l.SetCellValue(2026, b.ID, b.Rows[1].ID, model.MonthJan, "30.5")

	totals := l.GrandTotals(2026)
	if totals[model.MonthJan] != 280.5 {
		t.Errorf("grand[jan] = %v, want 280.5", totals[model.MonthJan])
	}
	if totals[model.MonthFeb] != 0 {
		t.Errorf("grand[feb] = %v, want 0", totals[model.MonthFeb])
	}

	// 与各站点合计行之和一致
	sum := 0.0
	for _, s := range l.ActiveSites(2026) {
		sum = model.Round2(sum + s.MonthTotal(model.MonthJan))
	}
	if sum != totals[model.MonthJan] {
		t.Errorf("grand total %v != sum of site totals %v", totals[model.MonthJan], sum)
	}
}

// TestScenarioVillaA 场景：别墅A 的水电录入、合计与归档还原
func TestScenarioVillaA(t *testing.T) {
	l, site := newTestLedger(2026)

	// 水用量 10 m³ / 水费 50 / 电用量 100 kWh / 电费 200
	l.SetCellValue(2026, site.ID, site.Rows[0].ID, model.MonthJan, "10")
	l.SetCellValue(2026, site.ID, site.Rows[1].ID, model.MonthJan, "50")
	l.SetCellValue(2026, site.ID, site.Rows[2].ID, model.MonthJan, "100")
	l.SetCellValue(2026, site.ID, site.Rows[3].ID, model.MonthJan, "200")

	got := findSite(t, l.ActiveSites(2026), site.ID)
	if v := got.TotalRow().Value(model.MonthJan); v != 250 {
		t.Fatalf("total[jan] = %v, want 250", v)
	}

	// 归档再还原，合计不变
	if err := l.ArchiveSite(2026, site.ID); err != nil {
		t.Fatalf("ArchiveSite: %v", err)
	}
	if err := l.RestoreSite(2026, site.ID); err != nil {
		t.Fatalf("RestoreSite: %v", err)
	}

	got = findSite(t, l.ActiveSites(2026), site.ID)
	if v := got.TotalRow().Value(model.MonthJan); v != 250 {
		t.Errorf("total[jan] after archive/restore = %v, want 250", v)
	}
}

// TestAttachmentLifecycle 测试附件上传/替换/超限/移除
func TestAttachmentLifecycle(t *testing.T) {
	l, site := newTestLedger(2026)
	row := site.Rows[1]

	att := &model.Attachment{ID: "a1", Name: "水费单.pdf", MimeType: "application/pdf", Payload: "aGVsbG8="}
	if err := l.SetAttachment(2026, site.ID, row.ID, att); err != nil {
		t.Fatalf("SetAttachment: %v", err)
	}

	got := findSite(t, l.ActiveSites(2026), site.ID)
	if got.Rows[1].Attachment == nil || got.Rows[1].Attachment.Name != "水费单.pdf" {
		t.Fatal("attachment not stored")
	}

	// 上传即替换
	att2 := &model.Attachment{ID: "a2", Name: "更正.pdf", MimeType: "application/pdf", Payload: "d29ybGQ="}
	if err := l.SetAttachment(2026, site.ID, row.ID, att2); err != nil {
		t.Fatalf("SetAttachment replace: %v", err)
	}
	got = findSite(t, l.ActiveSites(2026), site.ID)
	if got.Rows[1].Attachment.ID != "a2" {
		t.Error("upload should replace existing attachment")
	}

	// 超限拒绝，原附件保留
	huge := &model.Attachment{ID: "a3", Name: "big.bin", Payload: string(make([]byte, model.MaxAttachmentSize+1))}
	err := l.SetAttachment(2026, site.ID, row.ID, huge)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("oversized attachment err = %v, want ValidationError", err)
	}
	got = findSite(t, l.ActiveSites(2026), site.ID)
	if got.Rows[1].Attachment.ID != "a2" {
		t.Error("rejected upload must leave prior attachment untouched")
	}

	if err := l.RemoveAttachment(2026, site.ID, row.ID); err != nil {
		t.Fatalf("RemoveAttachment: %v", err)
	}
	got = findSite(t, l.ActiveSites(2026), site.ID)
	if got.Rows[1].Attachment != nil {
		t.Error("attachment should be removed")
	}
}

// TestSnapshotIsolation 测试对外快照与内部状态无共享
func TestSnapshotIsolation(t *testing.T) {
	l, site := newTestLedger(2026)
	l.SetCellValue(2026, site.ID, site.Rows[1].ID, model.MonthJan, "50")

	snap := l.ActiveSites(2026)
	snap[0].Rows[1].SetValue(model.MonthJan, 999)
	snap[0].Name = "被篡改"

	got := findSite(t, l.ActiveSites(2026), site.ID)
	if got.Rows[1].Value(model.MonthJan) != 50 {
		t.Error("mutating a snapshot must not affect ledger state")
	}
	if got.Name != "别墅A" {
		t.Error("mutating a snapshot must not affect ledger metadata")
	}
}

// TestConcurrentAccess 测试并发访问安全性
func TestConcurrentAccess(t *testing.T) {
	l, site := newTestLedger(2026)

	var wg sync.WaitGroup

	// 并发读取
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.ActiveSites(2026)
			_ = l.GrandTotals(2026)
		}()
	}

	// 并发写入
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			l.SetCellValue(2026, site.ID, site.Rows[1].ID, model.MonthJan, fmt.Sprintf("%d", n))
		}(i)
	}

	wg.Wait()

	// 验证没有 panic，合计不变量仍成立
	got := findSite(t, l.ActiveSites(2026), site.ID)
	if got.TotalRow().Value(model.MonthJan) != got.Rows[1].Value(model.MonthJan) {
		t.Error("total invariant violated after concurrent edits")
	}
}
