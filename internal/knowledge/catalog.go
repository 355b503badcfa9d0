// Package knowledge holds the hand-authored reference data interpolated into
// generation prompts: the Uvance solution catalog, the PoC-fatigue narrative,
// and the proposal slide templates.
package knowledge

// Solution is one catalog entry describing an offerable solution.
type Solution struct {
	Name            string
	Vertical        string
	Description     string
	KeyFeatures     []string
	UseCases        []string
	Differentiators []string
	ReferenceCases  []string
	PartnerFit      string
	TypicalROI      string
}

// Catalog is the Uvance solution catalog used for prompt context selection.
var Catalog = []Solution{
	{
		Name:        "Uvance Digital Shifts",
		Vertical:    "Digital Shifts",
		Description: "企業のDX推進を加速するエンドツーエンドソリューション。業務プロセス変革からデータ活用基盤構築まで。",
		KeyFeatures: []string{
			"業務プロセスDX（BPR + デジタル化）",
			"Kozuchi AI Platform連携（生成AI・ML基盤）",
			"Data e-TRUST（データガバナンス・プライバシー保護）",
			"アジャイル共創プログラム",
		},
		UseCases: []string{
			"WAKONX連携によるDXプラットフォーム構築",
			"カスタマーエクスペリエンス高度化",
			"データドリブン経営意思決定基盤",
			"生成AIを活用した業務自動化",
		},
		Differentiators: []string{
			"Kozuchi AI Platformによるマルチモーダル生成AI基盤",
			"Data e-TRUSTの信頼性あるデータ流通",
			"Palantir連携によるデータ分析高度化",
		},
		ReferenceCases: []string{"通信事業者向けネットワーク最適化AI", "金融機関DX基盤構築プロジェクト"},
		PartnerFit:     "WAKONX/BXのDX推進基盤として最も親和性が高い。KDDIの法人事業DX支援サービスとのシナジー。",
		TypicalROI:     "業務効率30-40%改善、データ活用による売上5-10%向上（12-18ヶ月で投資回収）",
	},
	{
		Name:        "Uvance Hybrid IT",
		Vertical:    "Hybrid IT",
		Description: "マルチクラウド・オンプレミスのハイブリッドIT基盤を最適化。運用自動化とセキュリティを統合。",
		KeyFeatures: []string{
			"マルチクラウド統合管理",
			"ゼロトラストセキュリティアーキテクチャ",
			"AIOps（AI運用自動化）",
			"クラウドネイティブ移行支援",
		},
		UseCases: []string{
			"KDDIデータセンター×クラウドハイブリッド最適化",
			"5Gエッジコンピューティング基盤",
			"通信インフラのクラウドネイティブ化",
		},
		Differentiators: []string{
			"富士通グローバルDC網との連携",
			"ゼロトラスト＋SASEの統合アプローチ",
			"AIOpsによるIT運用コスト60%削減実績",
		},
		ReferenceCases: []string{"大手通信事業者のクラウド移行プロジェクト", "グローバルIT基盤統合案件"},
		PartnerFit:     "KDDIのデータセンター事業・クラウドサービスとの直接連携。5Gエッジとの統合提案。",
		TypicalROI:     "IT運用コスト30-50%削減、インフラ障害50%減少（投資回収期間9-15ヶ月）",
	},
	{
		Name:        "Kozuchi AI Platform",
		Vertical:    "Digital Shifts",
		Description: "富士通の生成AI・機械学習統合プラットフォーム。エンタープライズ向けセキュアなAI基盤。",
		KeyFeatures: []string{
			"マルチモーダル生成AI（テキスト・画像・コード）",
			"企業専用LLMファインチューニング",
			"RAG（検索拡張生成）基盤",
			"AI倫理・ガバナンスフレームワーク",
		},
		UseCases: []string{
			"コールセンターAI自動応答",
			"社内ナレッジ検索の高度化",
			"契約書・技術文書の自動生成・分析",
		},
		Differentiators: []string{
			"日本語特化の高精度LLM",
			"エンタープライズセキュリティ標準準拠",
			"Fujitsu Research発の独自AI技術",
		},
		ReferenceCases: []string{"大手金融機関向け生成AI基盤構築", "製造業向けAI品質検査システム"},
		PartnerFit:     "KDDIの法人AI活用サービス、AIコールセンター、WAKONX AI機能との統合。",
		TypicalROI:     "業務自動化により人件費20-35%削減、サービス応答速度60%向上",
	},
	{
		Name:        "Data e-TRUST",
		Vertical:    "Digital Shifts",
		Description: "安全・信頼性の高いデータ流通基盤。パーソナルデータの適正管理からビジネスデータ活用まで。",
		KeyFeatures: []string{
			"データガバナンスフレームワーク",
			"プライバシー保護技術（差分プライバシー等）",
			"データカタログ・メタデータ管理",
			"Palantir Foundry連携",
		},
		UseCases: []string{
			"顧客データ統合・360度ビュー構築",
			"データマネタイゼーション基盤",
			"規制対応（個人情報保護法等）データ管理",
		},
		Differentiators: []string{
			"Palantirとの戦略的パートナーシップ",
			"日本の法規制に完全準拠した設計",
			"リアルタイムデータパイプライン",
		},
		ReferenceCases: []string{"ヘルスケアデータ流通プラットフォーム", "スマートシティデータ統合基盤"},
		PartnerFit:     "KDDIの保有する大規模顧客データの安全な活用。位置情報・通信データのデータビジネス推進。",
		TypicalROI:     "データ活用による新規収益5-15%創出、規制対応コスト40%削減",
	},
	{
		Name:        "Private 5G Solution",
		Vertical:    "Digital Shifts",
		Description: "企業・自治体向けプライベート5Gネットワーク構築。超低遅延・大容量通信でDXを実現。",
		KeyFeatures: []string{
			"ローカル5G基地局設計・構築",
			"ネットワークスライシング",
			"エッジコンピューティング連携",
			"AI×5Gリアルタイム分析",
		},
		UseCases: []string{
			"スマートファクトリー（製造現場DX）",
			"建設現場遠隔監視",
			"スタジアム・商業施設の高密度通信",
		},
		Differentiators: []string{
			"富士通のネットワーク技術蓄積（O-RAN推進）",
			"5G＋AI＋エッジの統合ソリューション",
		},
		ReferenceCases: []string{"製造業向けローカル5G工場", "スマートスタジアム実証"},
		PartnerFit:     "KDDIの5G事業との補完関係。KDDI法人向けプライベート5Gサービスとの協業機会。",
		TypicalROI:     "製造ライン稼働率15-25%向上、リモート監視によるコスト20%削減",
	},
	{
		Name:        "Uvance Healthy Living",
		Vertical:    "Healthy Living",
		Description: "ヘルスケア・ライフサイエンス向けDXソリューション。医療データ活用から健康経営支援まで。",
		KeyFeatures: []string{
			"医療データ統合プラットフォーム",
			"AI診断支援",
			"リモートヘルスモニタリング",
			"健康経営支援ダッシュボード",
		},
		UseCases: []string{"遠隔医療基盤構築", "従業員健康管理DX", "創薬データ分析"},
		Differentiators: []string{
			"医療機関との豊富な実績",
			"PMDA対応のバリデーション体制",
		},
		ReferenceCases: []string{"大学病院AI診断支援システム", "製薬会社データプラットフォーム"},
		PartnerFit:     "KDDIのヘルスケア事業との連携。通信×ヘルスケアの新市場。",
		TypicalROI:     "医療コスト15-20%削減、従業員健康リスク30%低減",
	},
	{
		Name:        "Uvance Trusted Society",
		Vertical:    "Trusted Society",
		Description: "安全・安心な社会基盤をデジタルで実現。スマートシティ・防災・行政DXソリューション。",
		KeyFeatures: []string{
			"スマートシティプラットフォーム",
			"デジタルツイン都市モデル",
			"防災・減災情報基盤",
			"行政DX・マイナンバー連携",
		},
		UseCases: []string{"自治体DX基盤構築", "交通最適化・MaaS", "災害対応リアルタイムシステム"},
		Differentiators: []string{
			"日本全国の自治体導入実績",
			"デジタルツイン技術の先進性",
		},
		ReferenceCases: []string{"政令指定都市スマートシティ基盤", "広域防災情報システム"},
		PartnerFit:     "KDDIの自治体向け通信インフラ・IoTサービスとの統合。スマートシティ共同推進。",
		TypicalROI:     "行政コスト20-30%削減、市民サービス満足度25%向上",
	},
	{
		Name:        "Zero Trust Security",
		Vertical:    "Hybrid IT",
		Description: "ゼロトラストアーキテクチャに基づく統合セキュリティソリューション。SASE・XDR・IAM統合。",
		KeyFeatures: []string{
			"SASE（Secure Access Service Edge）",
			"XDR（Extended Detection and Response）",
			"IAM（Identity Access Management）",
			"セキュリティ運用自動化（SOAR）",
		},
		UseCases: []string{
			"リモートワーク環境のセキュリティ強化",
			"サプライチェーンセキュリティ",
			"OTセキュリティ（制御系ネットワーク保護）",
		},
		Differentiators: []string{
			"SOC/CSIRT運用の豊富な実績",
			"国内最大級のセキュリティ監視基盤",
		},
		ReferenceCases: []string{"大手通信事業者SOC構築", "製造業OTセキュリティ導入"},
		PartnerFit:     "KDDIの法人セキュリティサービスとの協業。通信事業者としてのセキュリティ強化ニーズに対応。",
		TypicalROI:     "セキュリティインシデント70%削減、対応時間80%短縮",
	},
	{
		Name:        "Uvance Business Applications",
		Vertical:    "Digital Shifts",
		Description: "ERPモダナイゼーション・業務アプリケーション刷新。SAP S/4HANA移行を含む。",
		KeyFeatures: []string{
			"SAP S/4HANA移行・最適化",
			"ローコード/ノーコード業務アプリ開発",
			"業務プロセスマイニング",
			"RPA統合自動化",
		},
		UseCases: []string{
			"基幹システム刷新（2027年問題対応）",
			"業務プロセス可視化・最適化",
			"部門横断データ統合",
		},
		Differentiators: []string{
			"SAP認定パートナーとしての豊富な導入実績",
			"業務コンサルからシステム構築まで一貫支援",
		},
		ReferenceCases: []string{"大手通信会社ERP刷新プロジェクト", "グローバルSAP統合案件"},
		PartnerFit:     "KDDIの基幹システム刷新ニーズ。2027年問題への対応支援。",
		TypicalROI:     "業務処理速度40%向上、年間運用コスト25-35%削減（投資回収18-24ヶ月）",
	},
	{
		Name:        "Sustainability Transformation",
		Vertical:    "Digital Shifts",
		Description: "サステナビリティ経営をデジタルで推進。CO2排出量可視化からグリーンDXまで。",
		KeyFeatures: []string{
			"CO2排出量可視化・管理プラットフォーム",
			"サプライチェーンESGスコアリング",
			"グリーンIT最適化",
			"サステナビリティレポート自動生成",
		},
		UseCases: []string{
			"Scope1/2/3排出量管理",
			"サプライチェーンの脱炭素化支援",
			"TCFDレポート作成支援",
		},
		Differentiators: []string{
			"富士通自身のカーボンニュートラル実績",
			"グローバルサプライチェーンでの実装経験",
		},
		ReferenceCases: []string{"大手製造業CO2管理基盤", "サプライチェーンESG評価システム"},
		PartnerFit:     "KDDIのカーボンニュートラル宣言・ESG戦略との連携。通信インフラのグリーン化支援。",
		TypicalROI:     "CO2排出量20-30%削減、ESGスコア向上による企業価値増加",
	},
}
