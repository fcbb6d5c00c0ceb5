package i18n

// dictionaries maps language -> dotted key -> text. Languages without
// entries fall back to English.
var dictionaries = map[Lang]map[string]string{
	English: {
		"header.home":          "Home",
		"header.shorts":        "Shorts",
		"header.subscriptions": "Subscriptions",
		"header.you":           "You",
		"header.history":       "History",
		"header.playlists":     "Playlists",
		"header.your_videos":   "Your videos",
		"header.watch_later":   "Watch later",
		"header.liked_videos":  "Liked videos",

		"search.placeholder": "Search YouHub",
		"search.results":     "Results",
		"search.empty":       "No results",

		"hero.title":    "Trending videos",
		"hero.subtitle": "Fresh content for you",

		"cookies.text":      "This site uses cookies to help improve your user experience. Learn more about how we use cookies in our ",
		"cookies.customize": "Customize Cookies",
		"cookies.ok":        "Ok",
		"cookies.notice":    "Cookie Notice",

		"warning.text":     "This website contains age-restricted materials. By entering, you affirm that you are at least 6 years of age or the age of majority in your jurisdiction and you consent to viewing explicit content.",
		"warning.terms":    "Our Terms may change. See the Terms of Service.",
		"warning.enter":    "I am 6 or older - Enter",
		"warning.parental": "Parental controls",

		"resume.prompt":  "Resume from",
		"resume.resume":  "Resume",
		"resume.restart": "Start over",

		"watch.views":       "Views",
		"watch.subscribers": "Subscribers",
		"watch.videos":      "Videos",
		"watch.related":     "Up next",
		"watch.show_more":   "Show more",
		"watch.show_less":   "Show less",
		"watch.share":       "Link copied",

		"comments.title":   "Comments",
		"comments.popular": "Most popular",
		"comments.recent":  "Most recent",
		"comments.empty":   "No comments yet",

		"status.loading":     "Loading...",
		"status.load_failed": "Failed to load",
		"status.load_more":   "Load more",

		"notfound.title":  "404",
		"notfound.text":   "Coming soon...",
		"notfound.return": "Return to Home",

		"footer.contact_us":     "Contact Us",
		"footer.contact_prompt": "Have feedback or found an issue? We'd love to hear from you.",
		"footer.open_form":      "Open Form",
		"footer.email_us":       "Email Us",
		"footer.about":          "About",
		"footer.discover":       "Discover",
		"footer.support":        "Support",
		"footer.legal":          "Legal",
		"footer.more":           "More",
		"footer.language":       "Language",
		"footer.company":        "Company",
		"footer.careers":        "Careers",
		"footer.blog":           "Blog",
		"footer.press":          "Press",
		"footer.creators":       "Creators",
		"footer.live":           "Live",
		"footer.help_center":    "Help Center",
		"footer.contact":        "Contact",
		"footer.safety":         "Safety",
		"footer.accessibility":  "Accessibility",
		"footer.terms":          "Terms",
		"footer.privacy":        "Privacy",
		"footer.dmca":           "DMCA",
		"footer.cookie_notice":  "Cookie Notice",
		"footer.advertising":    "Advertising",
		"footer.api":            "API",
		"footer.partners":       "Partners",
		"footer.sitemap":        "Sitemap",
	},
	Vietnamese: {
		"header.home":          "Trang chủ",
		"header.shorts":        "Shorts",
		"header.subscriptions": "Kênh đăng ký",
		"header.you":           "Bạn",
		"header.history":       "Video đã xem",
		"header.playlists":     "Danh sách phát",
		"header.your_videos":   "Video của bạn",
		"header.watch_later":   "Xem sau",
		"header.liked_videos":  "Video đã thích",

		"search.placeholder": "Tìm kiếm YouTube",
		"search.results":     "Kết quả",
		"search.empty":       "Không có kết quả",

		"hero.title":    "Nội dung nổi bật",
		"hero.subtitle": "Gợi ý mới dành cho bạn",

		"cookies.text":      "Trang này sử dụng cookie để cải thiện trải nghiệm của bạn. Tìm hiểu thêm trong ",
		"cookies.customize": "Tùy chỉnh cookie",
		"cookies.ok":        "Đồng ý",
		"cookies.notice":    "Thông báo Cookie",

		"resume.prompt":  "Tiếp tục từ",
		"resume.resume":  "Tiếp tục",
		"resume.restart": "Xem từ đầu",

		"watch.views":       "Lượt xem",
		"watch.subscribers": "Người đăng ký",
		"watch.videos":      "Video",
		"watch.related":     "Tiếp theo",
		"watch.show_more":   "Hiện thêm",
		"watch.show_less":   "Ẩn bớt",
		"watch.share":       "Đã sao chép liên kết",

		"comments.title":   "Bình luận",
		"comments.popular": "Phổ biến nhất",
		"comments.recent":  "Mới nhất",
		"comments.empty":   "Chưa có bình luận",

		"status.loading":     "Đang tải...",
		"status.load_failed": "Tải thất bại",
		"status.load_more":   "Tải thêm",

		"notfound.text":   "Sắp ra mắt...",
		"notfound.return": "Về trang chủ",

		"footer.contact_us":     "Liên hệ",
		"footer.contact_prompt": "Bạn có gặp lỗi hay phát hiện vấn đề? Hãy cho chúng tôi biết.",
		"footer.open_form":      "Mở biểu mẫu",
		"footer.email_us":       "Gửi email",
		"footer.about":          "Giới thiệu",
		"footer.discover":       "Khám phá",
		"footer.support":        "Hỗ trợ",
		"footer.legal":          "Pháp lý",
		"footer.more":           "Khác",
		"footer.language":       "Ngôn ngữ",
		"footer.company":        "Công ty",
		"footer.careers":        "Tuyển dụng",
		"footer.blog":           "Blog",
		"footer.press":          "Báo chí",
		"footer.creators":       "Người sáng tạo",
		"footer.live":           "Trực tiếp",
		"footer.help_center":    "Trung tâm trợ giúp",
		"footer.contact":        "Liên hệ",
		"footer.safety":         "An toàn",
		"footer.accessibility":  "Trợ năng",
		"footer.terms":          "Điều khoản",
		"footer.privacy":        "Quyền riêng tư",
		"footer.dmca":           "DMCA",
		"footer.cookie_notice":  "Thông báo Cookie",
		"footer.advertising":    "Quảng cáo",
		"footer.api":            "API",
		"footer.partners":       "Đối tác",
		"footer.sitemap":        "Sơ đồ trang",
	},
	German:  {},
	French:  {},
	Spanish: {},
	Chinese: {},
}

// Category is a home-page filter pill
type Category struct {
	ID     string
	labels map[Lang]string
}

// Label returns the category name in lang, falling back to English
func (c Category) Label(lang Lang) string {
	if l, ok := c.labels[lang]; ok {
		return l
	}
	return c.labels[English]
}

func category(id, en, vi string) Category {
	return Category{ID: id, labels: map[Lang]string{English: en, Vietnamese: vi}}
}

// Categories are the home-page pills in display order
var Categories = []Category{
	category("all", "All", "Tất cả"),
	category("music", "Music", "Âm nhạc"),
	category("games", "Games", "Trò chơi"),
	category("playlist", "Playlist", "Danh sách phát"),
	category("minecraft_mods", "Minecraft Mods", "Bản mod Minecraft"),
	category("live", "Live", "Trực tiếp"),
	category("math", "Mathematics", "Toán học"),
	category("action_adventure", "Action-Adventure Games", "Trò chơi hành động phiêu lưu"),
	category("rap", "Rap", "Nhạc rap"),
	category("recent", "Recently Uploaded", "Vừa tải lên"),
	category("watched", "Watched", "Đã xem"),
	category("recommended", "Recommended", "Đề xuất"),
}

// Feed is a home-page browse tab
type Feed struct {
	ID     string
	Label  string
	Region string
}

// Feeds are the home-page tabs in display order
var Feeds = []Feed{
	{ID: "FEtrending", Label: "Trending"},
	{ID: "FEtrendingVN", Label: "Trending VN", Region: "VN"},
	{ID: "FEexplore", Label: "Explore"},
	{ID: "FEsubscriptions", Label: "Subscriptions"},
	{ID: "FEmusic", Label: "Music"},
}
