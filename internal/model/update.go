package model

// SiteMetadataUpdate 站点元数据部分更新命令
// nil 字段表示不修改；行与值数据不受影响
type SiteMetadataUpdate struct {
	Name        *string `json:"name,omitempty"`
	MeterNumber *string `json:"meterNumber,omitempty"`
}

// Empty 是否为空更新
func (u SiteMetadataUpdate) Empty() bool {
	return u.Name == nil && u.MeterNumber == nil
}

// Apply 将更新应用到单个站点，返回是否有修改
func (u SiteMetadataUpdate) Apply(s *SiteData) bool {
	if s == nil {
		return false
	}
	changed := false
	if u.Name != nil && s.Name != *u.Name {
		s.Name = *u.Name
		changed = true
	}
	if u.MeterNumber != nil && s.MeterNumber != *u.MeterNumber {
		s.MeterNumber = *u.MeterNumber
		changed = true
	}
	return changed
}

// ApplyToSites 对列表中匹配 ID 的站点应用更新，返回是否有修改
func (u SiteMetadataUpdate) ApplyToSites(sites []*SiteData, siteID string) bool {
	changed := false
	for _, s := range sites {
		if s.ID == siteID && u.Apply(s) {
			changed = true
		}
	}
	return changed
}
