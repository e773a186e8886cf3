package rod

// listingScript pairs headline i with image container i and article link i.
// Image URLs that cannot be resolved are returned as written.
// Cards that throw are skipped, so the result may be shorter than the
// headline collection.
const listingScript = `(sel) => {
	const all = (s) => (s ? Array.from(document.querySelectorAll(s)) : []);
	const abs = (v) => {
		if (!v) return v;
		try { return new URL(v, document.baseURI).href; } catch (e) { return v; }
	};
	const headlines = all(sel.headline);
	const containers = all(sel.image);
	const links = all(sel.articleLink);
	const out = [];
	headlines.forEach((headline, i) => {
		try {
			const c = containers[i];
			const img = c ? (c.tagName === 'IMG' ? c : c.querySelector('img')) : null;
			const image = (img && (img.src || abs(img.dataset && img.dataset.src))) || 'No image';
			const link = (links[i] && links[i].href) || 'No link';
			out.push({ title: (headline.innerText || '').trim(), image: image, articleLink: link });
		} catch (e) {}
	});
	return out;
}`

// articleScript reads each field independently; a failing field is null.
// Anything escaping the per-field guards is reported as {error}.
const articleScript = `(sel) => {
	try {
		const guard = (fn) => { try { return fn(); } catch (e) { return null; } };
		const abs = (v) => {
			if (!v) return v;
			try { return new URL(v, document.baseURI).href; } catch (e) { return v; }
		};
		const text = (s) => guard(() => {
			const el = s ? document.querySelector(s) : null;
			return (el && (el.innerText || '').trim()) || null;
		});
		const image = (s) => guard(() => {
			const el = s ? document.querySelector(s) : null;
			return (el && (el.src || abs(el.dataset && el.dataset.src))) || null;
		});
		const paragraphs = guard(() =>
			Array.from(document.querySelectorAll(sel.paragraph))
				.map((p) => (p.innerText || '').trim())
				.filter(Boolean)) || [];
		return {
			shortContent: text(sel.shortContent),
			paragraphs: paragraphs,
			date: text(sel.date),
			image: image(sel.image),
		};
	} catch (e) {
		return { error: String((e && e.message) || e) };
	}
}`

type listingArgs struct {
	Headline    string `json:"headline"`
	Image       string `json:"image"`
	ArticleLink string `json:"articleLink"`
}

type articleArgs struct {
	Paragraph    string `json:"paragraph"`
	ShortContent string `json:"shortContent"`
	Date         string `json:"date"`
	Image        string `json:"image"`
}

type articleResult struct {
	ShortContent *string  `json:"shortContent"`
	Paragraphs   []string `json:"paragraphs"`
	Date         *string  `json:"date"`
	Image        *string  `json:"image"`
	Error        string   `json:"error"`
}
