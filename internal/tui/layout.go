package tui

// updateLayout updates component sizes based on window size
func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}

	contentHeight := m.Height - ChromeHeight
	listWidth, previewWidth := m.browseColumns()

	m.BrowseList.SetSize(listWidth, contentHeight)
	m.LaterPanel.SetSize(m.Width, contentHeight)
	m.FilterModal.SetSize(m.Width, m.Height)

	if m.Mode == ViewDetail {
		m.Inspector.SetSize(m.Width, contentHeight)
	} else {
		m.Inspector.SetSize(previewWidth, contentHeight)
	}
	m.rebuildBrowseRows()
}

// browseColumns splits the width between the list and the preview.
// A narrow terminal drops the preview.
func (m Model) browseColumns() (list, preview int) {
	list = m.Width * ListColumnPercent / 100
	preview = m.Width - list
	if preview < MinColumnWidth {
		return m.Width, 0
	}
	return list, preview
}
