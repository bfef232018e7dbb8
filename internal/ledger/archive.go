package ledger

import (
	"github.com/privatep88/record-water-elc/internal/model"
)

// 归档生命周期：活动 → 归档 → 还原(=活动) 或 清除(终态)
// 每步在台账锁内一次完成：观察者看到的站点要么在活动列表、
// 要么在归档列表，绝不同时在两边或两边都不在。

// ArchiveSite 将站点从某年活动列表移入该年归档
// 移入的是移除时刻的完整站点值（含行/值/附件）
func (l *Ledger) ArchiveSite(year int, siteID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	snapshot := l.viewLocked(year)
	idx := indexOfSite(snapshot, siteID)
	if idx < 0 {
		return ErrSiteNotFound
	}

	site := snapshot[idx]
	snapshot = append(snapshot[:idx], snapshot[idx+1:]...)

	l.years[year] = snapshot
	l.archive[year] = append(l.archive[year], site)
	l.markDirtyLocked()
	return nil
}

// RestoreSite 将站点从某年归档还原回该年活动列表
func (l *Ledger) RestoreSite(year int, siteID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	archived := l.archive[year]
	idx := indexOfSite(archived, siteID)
	if idx < 0 {
		return ErrSiteNotFound
	}

	site := archived[idx]
	l.archive[year] = append(archived[:idx], archived[idx+1:]...)

	snapshot := l.viewLocked(year)
	snapshot = append(snapshot, site)
	l.years[year] = snapshot
	l.markDirtyLocked()
	return nil
}

// PurgeSite 从某年归档中永久清除站点
// 不可恢复；模板与年度台账不受影响
func (l *Ledger) PurgeSite(year int, siteID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	archived := l.archive[year]
	idx := indexOfSite(archived, siteID)
	if idx < 0 {
		return ErrSiteNotFound
	}

	l.archive[year] = append(archived[:idx], archived[idx+1:]...)
	l.markDirtyLocked()
	return nil
}

func indexOfSite(sites []*model.SiteData, siteID string) int {
	for i, s := range sites {
		if s.ID == siteID {
			return i
		}
	}
	return -1
}
