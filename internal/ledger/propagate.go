package ledger

import (
	"github.com/privatep88/record-water-elc/internal/model"
)

// AddSiteGlobally 全局新增站点
// 规则：
//  1. 追加到模板；
//  2. 当前年：未物化则按"追加前模板 + 新站点"物化；已物化则去重后追加；
//  3. 晚于当前年的已物化年份同样去重追加；
//  4. 早于当前年的年份一律不动 —— 新站点不得回溯出现在历史财年。
func (l *Ledger) AddSiteGlobally(site *model.SiteData) *model.SiteData {
	l.mu.Lock()
	defer l.mu.Unlock()

	current := l.currentYear

	// 当前年未物化时，先基于追加前的模板物化
	if _, ok := l.years[current]; !ok {
		materialized := make([]*model.SiteData, 0, len(l.template)+1)
		for _, s := range l.template {
			if s.ExistsInYear(current) {
				materialized = append(materialized, s.Clone())
			}
		}
		l.years[current] = materialized
	}

	l.template = append(l.template, site.Clone())

	for year, sites := range l.years {
		if year < current {
			continue
		}
		if !site.ExistsInYear(year) {
			continue
		}
		if containsSite(sites, site.ID) {
			continue
		}
		l.years[year] = append(sites, site.Clone())
	}

	l.markDirtyLocked()
	return site.Clone()
}

// UpdateSiteMetadata 更新站点元数据（名称/表号）
// 应用到模板、全部已物化年份、全部归档年份 —— 改名后的站点
// 历史归档副本也保持与当前展示名一致。行与值数据不受影响。
func (l *Ledger) UpdateSiteMetadata(siteID string, upd model.SiteMetadataUpdate) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	found := false
	if upd.ApplyToSites(l.template, siteID) {
		found = true
	}
	for _, sites := range l.years {
		if upd.ApplyToSites(sites, siteID) {
			found = true
		}
	}
	for _, sites := range l.archive {
		if upd.ApplyToSites(sites, siteID) {
			found = true
		}
	}

	if !found {
		// 空更新也要求站点存在
		if !l.siteKnownLocked(siteID) {
			return ErrSiteNotFound
		}
		return nil
	}

	l.markDirtyLocked()
	return nil
}

// siteKnownLocked 站点 ID 是否存在于任一集合
func (l *Ledger) siteKnownLocked(siteID string) bool {
	if containsSite(l.template, siteID) {
		return true
	}
	for _, sites := range l.years {
		if containsSite(sites, siteID) {
			return true
		}
	}
	for _, sites := range l.archive {
		if containsSite(sites, siteID) {
			return true
		}
	}
	return false
}

func containsSite(sites []*model.SiteData, siteID string) bool {
	for _, s := range sites {
		if s.ID == siteID {
			return true
		}
	}
	return false
}
