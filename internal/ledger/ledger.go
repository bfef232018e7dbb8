package ledger

import (
	"sort"
	"sync"

	"github.com/privatep88/record-water-elc/internal/model"
)

// Ledger 台账控制器
// 持有三个独立的根集合：模板、年度台账、归档台账。
// 集合之间只通过深拷贝交换数据，历史年份不随模板演化而改变。
type Ledger struct {
	template    []*model.SiteData
	years       map[int][]*model.SiteData
	archive     map[int][]*model.SiteData
	currentYear int

	// onDirty 脏通知，落盘时机由宿主调度
	onDirty func()

	mu sync.RWMutex
}

// New 创建台账
func New(currentYear int) *Ledger {
	return &Ledger{
		years:       make(map[int][]*model.SiteData),
		archive:     make(map[int][]*model.SiteData),
		currentYear: currentYear,
	}
}

// SetOnDirty 注册脏通知回调
func (l *Ledger) SetOnDirty(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onDirty = fn
}

// markDirtyLocked 发出脏通知，须在持有写锁时调用
func (l *Ledger) markDirtyLocked() {
	if l.onDirty != nil {
		l.onDirty()
	}
}

// CurrentYear 当前操作财年
func (l *Ledger) CurrentYear() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.currentYear
}

// SetCurrentYear 切换当前操作财年
func (l *Ledger) SetCurrentYear(year int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.currentYear = year
}

// viewLocked 取某年的活动站点视图（深拷贝）
// 已物化年份取其条目；否则按启用年份过滤模板生成，
// 但不写入 years —— 物化只在写入时发生，避免只读访问污染台账
func (l *Ledger) viewLocked(year int) []*model.SiteData {
	if sites, ok := l.years[year]; ok {
		return model.CloneSites(sites)
	}
	view := make([]*model.SiteData, 0, len(l.template))
	for _, s := range l.template {
		if s.ExistsInYear(year) {
			view = append(view, s.Clone())
		}
	}
	return view
}

// ActiveSites 某年的活动站点列表（深拷贝快照，调用方可安全持有）
func (l *Ledger) ActiveSites(year int) []*model.SiteData {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.viewLocked(year)
}

// SetActiveSites 整体替换某年的活动站点列表
// 所有编辑都基于快照计算后经由这里写回
func (l *Ledger) SetActiveSites(year int, sites []*model.SiteData) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.years[year] = model.CloneSites(sites)
	l.markDirtyLocked()
}

// ArchivedSites 某年的归档站点列表（深拷贝快照）
func (l *Ledger) ArchivedSites(year int) []*model.SiteData {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return model.CloneSites(l.archive[year])
}

// Template 模板站点列表（深拷贝快照）
func (l *Ledger) Template() []*model.SiteData {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return model.CloneSites(l.template)
}

// Years 已物化的年份列表，升序
func (l *Ledger) Years() []int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	years := make([]int, 0, len(l.years))
	for y := range l.years {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// mutateSite 对某年某站点执行修改：
// 基于深拷贝快照定位站点，应用 fn，重算合计行，整体写回并物化该年。
// 站点不存在时整体不生效。
func (l *Ledger) mutateSite(year int, siteID string, fn func(*model.SiteData) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	snapshot := l.viewLocked(year)
	var target *model.SiteData
	for _, s := range snapshot {
		if s.ID == siteID {
			target = s
			break
		}
	}
	if target == nil {
		return ErrSiteNotFound
	}

	if err := fn(target); err != nil {
		return err
	}

	recalcTotals(target)
	l.years[year] = snapshot
	l.markDirtyLocked()
	return nil
}
